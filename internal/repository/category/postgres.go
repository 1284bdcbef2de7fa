package category

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

const selectColumns = `id::text, user_id::text, name, normalized_name, hidden, highlighted, created_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.NormalizedName, &c.Hidden, &c.Highlighted, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories WHERE user_id = $1`, selectColumns)
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.NormalizedName, &c.Hidden, &c.Highlighted, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, selectColumns)
	return scanCategory(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByNormalizedName(ctx context.Context, userID, normalized string) (*domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories WHERE user_id = $1 AND normalized_name = $2`, selectColumns)
	return scanCategory(r.pool.QueryRow(ctx, q, userID, normalized))
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (string, error) {
	const q = `
INSERT INTO categories (user_id, name, normalized_name, hidden, highlighted)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q, c.UserID, c.Name, c.NormalizedName, c.Hidden, c.Highlighted).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", domain.ErrAlreadyExists
		}
		return "", err
	}
	return id, nil
}

// updatableColumns whitelists the columns a partial merge may touch.
var updatableColumns = map[string]bool{
	"name":            true,
	"normalized_name": true,
	"hidden":          true,
	"highlighted":     true,
}

func (r *postgresRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	set, args, err := buildSet(updates, updatableColumns)
	if err != nil {
		return err
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d`, set, len(args))
	cmd, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListHiddenIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text FROM categories WHERE user_id = $1 AND hidden`, userID)
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

func (r *postgresRepo) SetHiddenBatch(ctx context.Context, ids []string, hidden bool) error {
	if len(ids) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`UPDATE categories SET hidden = $1 WHERE id = $2`, hidden, id)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *postgresRepo) DeleteWithTasks(ctx context.Context, id string, taskIDs []string) error {
	batch := &pgx.Batch{}
	for _, taskID := range taskIDs {
		batch.Queue(`DELETE FROM tasks WHERE id = $1`, taskID)
	}
	batch.Queue(`DELETE FROM categories WHERE id = $1`, id)
	return r.pool.SendBatch(ctx, batch).Close()
}

// buildSet renders a SET clause from a partial-update map, rejecting columns
// outside the whitelist.
func buildSet(updates map[string]any, allowed map[string]bool) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, errors.New("no updates provided")
	}
	parts := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates))
	for col, val := range updates {
		if !allowed[col] {
			return "", nil, fmt.Errorf("column %q is not updatable", col)
		}
		args = append(args, val)
		parts = append(parts, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return strings.Join(parts, ", "), args, nil
}
