package category

import (
	"context"

	"taskit/internal/domain"
)

// Repository persists categories. Update applies a partial merge of the
// provided column/value pairs; unknown columns are rejected by the
// implementation.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByNormalizedName(ctx context.Context, userID, normalized string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (string, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	ListHiddenIDs(ctx context.Context, userID string) ([]string, error)
	SetHiddenBatch(ctx context.Context, ids []string, hidden bool) error
	// DeleteWithTasks removes the category record together with the given
	// task ids in a single batch. taskIDs may be empty; the category delete
	// still rides in a batch of its own.
	DeleteWithTasks(ctx context.Context, id string, taskIDs []string) error
}
