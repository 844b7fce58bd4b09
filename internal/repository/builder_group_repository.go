package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// BuilderGroupRepository exposes builder group lookups.
type BuilderGroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BuilderGroup, error)
	List(ctx context.Context) ([]domain.BuilderGroup, error)
}

type builderGroupRepository struct {
	pool *pgxpool.Pool
}

// NewBuilderGroupRepository returns repository.
func NewBuilderGroupRepository(pool *pgxpool.Pool) BuilderGroupRepository {
	return &builderGroupRepository{pool: pool}
}

func (r *builderGroupRepository) GetByID(ctx context.Context, id string) (*domain.BuilderGroup, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	const query = `SELECT id, name, created_at FROM builder_groups WHERE id=$1`
	var group domain.BuilderGroup
	if err := r.pool.QueryRow(ctx, query, id).Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *builderGroupRepository) List(ctx context.Context) ([]domain.BuilderGroup, error) {
	const query = `SELECT id, name, created_at FROM builder_groups ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.BuilderGroup{}
	for rows.Next() {
		var group domain.BuilderGroup
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	return result, rows.Err()
}
