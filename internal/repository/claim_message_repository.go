package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// ClaimMessageRepository manages tracked claim communications.
type ClaimMessageRepository interface {
	Create(ctx context.Context, msg *domain.ClaimMessage) error
	ListByClaim(ctx context.Context, claimID string) ([]domain.ClaimMessage, error)
}

type claimMessageRepository struct {
	pool *pgxpool.Pool
}

// NewClaimMessageRepository builds repository.
func NewClaimMessageRepository(pool *pgxpool.Pool) ClaimMessageRepository {
	return &claimMessageRepository{pool: pool}
}

func (r *claimMessageRepository) Create(ctx context.Context, msg *domain.ClaimMessage) error {
	const query = `
        INSERT INTO claim_messages (claim_id, message_type, recipient, subject, body, sent_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		msg.ClaimID,
		string(msg.Type),
		msg.Recipient,
		msg.Subject,
		msg.Body,
		msg.Timestamp,
	).Scan(&msg.ID)
}

// ListByClaim returns messages in insertion order; callers sort by timestamp.
func (r *claimMessageRepository) ListByClaim(ctx context.Context, claimID string) ([]domain.ClaimMessage, error) {
	const query = `
        SELECT id, claim_id, message_type, recipient, subject, body, sent_at
        FROM claim_messages WHERE claim_id=$1`
	rows, err := r.pool.Query(ctx, query, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClaimMessages(rows)
}

func listAllMessages(ctx context.Context, q querier) ([]domain.ClaimMessage, error) {
	const query = `
        SELECT id, claim_id, message_type, recipient, subject, body, sent_at
        FROM claim_messages`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClaimMessages(rows)
}

// scanClaimMessages leaves Timestamp zero when sent_at is NULL; analytics
// treats that as an unusable date.
func scanClaimMessages(rows pgx.Rows) ([]domain.ClaimMessage, error) {
	result := []domain.ClaimMessage{}
	for rows.Next() {
		var (
			msg     domain.ClaimMessage
			msgType string
			sentAt  *time.Time
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.ClaimID,
			&msgType,
			&msg.Recipient,
			&msg.Subject,
			&msg.Body,
			&sentAt,
		); err != nil {
			return nil, err
		}
		msg.Type = domain.ClaimMessageType(msgType)
		if sentAt != nil {
			msg.Timestamp = *sentAt
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
