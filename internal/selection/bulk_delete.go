package selection

import (
	"context"

	"go.uber.org/zap"
)

// ClaimDeleter removes a single claim permanently.
type ClaimDeleter interface {
	DeleteClaim(ctx context.Context, id string) error
}

// DeleteFailure pairs an id with the error that stopped its deletion.
type DeleteFailure struct {
	ID  string
	Err error
}

// BulkDeleteResult reports the outcome per id. Successful deletions are
// never rolled back when a later id fails.
type BulkDeleteResult struct {
	Deleted []string
	Failed  []DeleteFailure
}

// OK reports whether every id was deleted.
func (r BulkDeleteResult) OK() bool {
	return len(r.Failed) == 0
}

// BulkDelete deletes ids one at a time in order. It stops early only when
// ctx is cancelled; the remaining ids are reported as failed.
func BulkDelete(ctx context.Context, ids []string, deleter ClaimDeleter, logger *zap.Logger) BulkDeleteResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := BulkDeleteResult{Deleted: []string{}, Failed: []DeleteFailure{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Err: err})
			continue
		}
		if err := deleter.DeleteClaim(ctx, id); err != nil {
			logger.Warn("claim delete failed", zap.String("claim_id", id), zap.Error(err))
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	logger.Info("bulk delete finished",
		zap.Int("requested", len(ids)),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("failed", len(result.Failed)))
	return result
}
