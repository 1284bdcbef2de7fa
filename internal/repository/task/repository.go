package task

import (
	"context"

	"taskit/internal/domain"
)

// Repository persists tasks. List operations accept an optional owner id
// ("" disables the owner filter) mirroring the subscription scopes.
type Repository interface {
	ListByCategory(ctx context.Context, categoryID, userID string) ([]domain.Task, error)
	ListIDsByCategory(ctx context.Context, categoryID, userID string) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, t domain.Task) (string, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
}
