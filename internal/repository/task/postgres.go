package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskit/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByCategory(ctx context.Context, categoryID, userID string) ([]domain.Task, error) {
	q := `
SELECT id::text, user_id::text, category_id::text, text, completed, highlighted, created_at
FROM tasks
WHERE category_id = $1
`
	args := []any{categoryID}
	if userID != "" {
		q += ` AND user_id = $2`
		args = append(args, userID)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Text, &t.Completed, &t.Highlighted, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) ListIDsByCategory(ctx context.Context, categoryID, userID string) ([]string, error) {
	q := `SELECT id::text FROM tasks WHERE category_id = $1`
	args := []any{categoryID}
	if userID != "" {
		q += ` AND user_id = $2`
		args = append(args, userID)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const q = `
SELECT id::text, user_id::text, category_id::text, text, completed, highlighted, created_at
FROM tasks
WHERE id = $1
`
	var t domain.Task
	if err := r.pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Text, &t.Completed, &t.Highlighted, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) Create(ctx context.Context, t domain.Task) (string, error) {
	const q = `
INSERT INTO tasks (user_id, category_id, text, completed, highlighted)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q, t.UserID, t.CategoryID, t.Text, t.Completed, t.Highlighted).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

var updatableColumns = map[string]bool{
	"text":        true,
	"completed":   true,
	"highlighted": true,
}

func (r *postgresRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return errors.New("no updates provided")
	}
	parts := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+1)
	for col, val := range updates {
		if !updatableColumns[col] {
			return fmt.Errorf("column %q is not updatable", col)
		}
		args = append(args, val)
		parts = append(parts, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(parts, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`DELETE FROM tasks WHERE id = $1`, id)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}
