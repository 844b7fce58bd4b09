package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// ClaimFilter narrows claim listings.
type ClaimFilter struct {
	HomeownerName *string
	Address       *string
	SearchTerm    *string
	Limit         int
	Offset        int
}

// ClaimRepository encapsulates claim persistence.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	Update(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id string) (*domain.Claim, error)
	List(ctx context.Context, filter ClaimFilter) ([]domain.Claim, error)
	Delete(ctx context.Context, id string) error
}

type claimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository instantiates repository.
func NewClaimRepository(pool *pgxpool.Pool) ClaimRepository {
	return &claimRepository{pool: pool}
}

const claimColumns = `id, claim_number, homeowner_name, address, description, status, classification,
               date_submitted, date_evaluated, reviewed, proposed_dates, comments, created_at, updated_at`

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	const query = `
        INSERT INTO claims (claim_number, homeowner_name, address, description, status, classification,
            date_submitted, date_evaluated, reviewed, proposed_dates, comments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		claim.ClaimNumber,
		claim.HomeownerName,
		claim.Address,
		claim.Description,
		string(claim.Status),
		string(claim.Classification),
		claim.DateSubmitted,
		claim.DateEvaluated,
		claim.Reviewed,
		proposedDatesOrEmpty(claim.ProposedDates),
		commentsOrEmpty(claim.Comments),
	).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt)
}

func (r *claimRepository) Update(ctx context.Context, claim *domain.Claim) error {
	const query = `
        UPDATE claims SET homeowner_name=$1, address=$2, description=$3, status=$4, classification=$5,
            date_evaluated=$6, reviewed=$7, proposed_dates=$8, comments=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		claim.HomeownerName,
		claim.Address,
		claim.Description,
		string(claim.Status),
		string(claim.Classification),
		claim.DateEvaluated,
		claim.Reviewed,
		proposedDatesOrEmpty(claim.ProposedDates),
		commentsOrEmpty(claim.Comments),
		claim.ID,
	).Scan(&claim.UpdatedAt)
}

func (r *claimRepository) GetByID(ctx context.Context, id string) (*domain.Claim, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id=$1`
	claim, err := scanClaim(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return claim, nil
}

func (r *claimRepository) List(ctx context.Context, filter ClaimFilter) ([]domain.Claim, error) {
	return listClaims(ctx, r.pool, filter)
}

func listClaims(ctx context.Context, q querier, filter ClaimFilter) ([]domain.Claim, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.HomeownerName != nil {
		args = append(args, *filter.HomeownerName)
		clauses = append(clauses, fmt.Sprintf("homeowner_name=$%d", len(args)))
	}
	if filter.Address != nil {
		args = append(args, *filter.Address)
		clauses = append(clauses, fmt.Sprintf("address=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(claim_number) LIKE %s OR LOWER(homeowner_name) LIKE %s OR LOWER(address) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM claims WHERE %s ORDER BY date_submitted DESC`,
		claimColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Claim{}
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *claim)
	}
	return result, rows.Err()
}

// Delete hard-deletes a claim and, by cascade, its tracked messages.
func (r *claimRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM claims WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanClaim(row pgx.Row) (*domain.Claim, error) {
	var (
		claim          domain.Claim
		status         string
		classification string
		evaluated      *time.Time
	)
	if err := row.Scan(
		&claim.ID,
		&claim.ClaimNumber,
		&claim.HomeownerName,
		&claim.Address,
		&claim.Description,
		&status,
		&classification,
		&claim.DateSubmitted,
		&evaluated,
		&claim.Reviewed,
		&claim.ProposedDates,
		&claim.Comments,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseClaimStatus(status)
	if err != nil {
		return nil, fmt.Errorf("claim %s: %w", claim.ID, err)
	}
	claim.Status = parsed
	claim.Classification = domain.NormalizeClassification(classification)
	claim.DateEvaluated = evaluated
	return &claim, nil
}

func proposedDatesOrEmpty(dates []domain.ProposedDate) []domain.ProposedDate {
	if dates == nil {
		return []domain.ProposedDate{}
	}
	return dates
}

func commentsOrEmpty(comments []domain.ClaimComment) []domain.ClaimComment {
	if comments == nil {
		return []domain.ClaimComment{}
	}
	return comments
}
