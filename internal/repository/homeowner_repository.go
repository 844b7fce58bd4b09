package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// HomeownerRepository reads homeowner records.
type HomeownerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Homeowner, error)
	List(ctx context.Context, builderID *string) ([]domain.Homeowner, error)
}

type homeownerRepository struct {
	pool *pgxpool.Pool
}

// NewHomeownerRepository constructs repository.
func NewHomeownerRepository(pool *pgxpool.Pool) HomeownerRepository {
	return &homeownerRepository{pool: pool}
}

const homeownerColumns = `id, name, address, email, phone, closing_date, builder_id, created_at, updated_at`

func (r *homeownerRepository) GetByID(ctx context.Context, id string) (*domain.Homeowner, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	query := `SELECT ` + homeownerColumns + ` FROM homeowners WHERE id=$1`
	return scanHomeowner(r.pool.QueryRow(ctx, query, id))
}

func (r *homeownerRepository) List(ctx context.Context, builderID *string) ([]domain.Homeowner, error) {
	return listHomeowners(ctx, r.pool, builderID)
}

func listHomeowners(ctx context.Context, q querier, builderID *string) ([]domain.Homeowner, error) {
	query := `SELECT ` + homeownerColumns + ` FROM homeowners`
	args := []any{}
	if builderID != nil {
		query += ` WHERE builder_id=$1`
		args = append(args, *builderID)
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Homeowner{}
	for rows.Next() {
		h, err := scanHomeowner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *h)
	}
	return result, rows.Err()
}

func scanHomeowner(row pgx.Row) (*domain.Homeowner, error) {
	var (
		h         domain.Homeowner
		closing   *time.Time
		builderID *string
	)
	if err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Address,
		&h.Email,
		&h.Phone,
		&closing,
		&builderID,
		&h.CreatedAt,
		&h.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if closing != nil {
		h.ClosingDate = *closing
	}
	if builderID != nil {
		h.BuilderID = *builderID
	}
	return &h, nil
}
