package oplog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store writing to the logs table.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Insert(ctx context.Context, r Record) error {
	payload, err := json.Marshal(r.Context)
	if err != nil {
		payload = []byte("{}")
	}
	const q = `
INSERT INTO logs (user_id, module, operation, type, message, code, context)
VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6, $7)
`
	_, err = s.pool.Exec(ctx, q, r.UserID, r.Module, r.Operation, string(r.Type), r.Message, r.Code, payload)
	return err
}

func (s *postgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
