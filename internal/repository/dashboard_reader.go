package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// querier is the read surface shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DashboardData is everything the analytics engine reads for one snapshot.
type DashboardData struct {
	Claims     []domain.Claim
	Homeowners []domain.Homeowner
	Messages   []domain.ClaimMessage
}

// DashboardReader loads DashboardData from a single point in time.
type DashboardReader interface {
	ReadDashboard(ctx context.Context) (*DashboardData, error)
}

type dashboardReader struct {
	pool *pgxpool.Pool
}

// NewDashboardReader returns a reader that runs all three queries inside one
// read-only REPEATABLE READ transaction.
func NewDashboardReader(pool *pgxpool.Pool) DashboardReader {
	return &dashboardReader{pool: pool}
}

func (r *dashboardReader) ReadDashboard(ctx context.Context) (*DashboardData, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin dashboard read: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	claims, err := listClaims(ctx, tx, ClaimFilter{})
	if err != nil {
		return nil, err
	}
	homeowners, err := listHomeowners(ctx, tx, nil)
	if err != nil {
		return nil, err
	}
	messages, err := listAllMessages(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit dashboard read: %w", err)
	}
	return &DashboardData{Claims: claims, Homeowners: homeowners, Messages: messages}, nil
}
