// Package oplog records operational errors. Every record is emitted to the
// local structured log and, best effort, persisted to the logs table so
// failures are visible across deployments. Persistence failures never
// propagate to callers.
package oplog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"taskit/internal/domain"
	"taskit/internal/validate"
)

// Type classifies a recorded error.
type Type string

const (
	TypeValidation Type = "validation"
	TypeDatabase   Type = "database"
	TypeAPI        Type = "api"
	TypeAuth       Type = "auth"
	TypeUnknown    Type = "unknown"
)

// Record is one diagnostic entry. Timestamp is assigned by the store.
type Record struct {
	UserID    string
	Module    string
	Operation string
	Type      Type
	Message   string
	Code      string
	Context   map[string]any
}

// Store persists records durably.
type Store interface {
	Insert(ctx context.Context, r Record) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Recorder fans a record out to the local logger and the durable store.
// A nil store disables the durable half (used by the local server).
type Recorder struct {
	logger *zap.Logger
	store  Store
	// writeTimeout bounds the durable insert so a slow store cannot stall
	// the calling mutation.
	writeTimeout time.Duration
}

func NewRecorder(logger *zap.Logger, store Store) *Recorder {
	return &Recorder{
		logger:       logger,
		store:        store,
		writeTimeout: 2 * time.Second,
	}
}

// Error records a failed operation. It never returns an error and never
// panics; a failed durable write is only logged locally to avoid recursive
// failure loops.
func (r *Recorder) Error(ctx context.Context, rec Record) {
	if rec.Type == "" {
		rec.Type = TypeUnknown
	}
	r.logger.Error("operation failed",
		zap.String("module", rec.Module),
		zap.String("operation", rec.Operation),
		zap.String("type", string(rec.Type)),
		zap.String("userId", rec.UserID),
		zap.String("code", rec.Code),
		zap.String("message", rec.Message),
		zap.Any("context", rec.Context),
	)
	if r.store == nil {
		return
	}
	// Detach from the caller's context so cancellation of the failed
	// operation does not also cancel the log write.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()
	if err := r.store.Insert(wctx, rec); err != nil {
		r.logger.Warn("failed to persist log record", zap.Error(err))
	}
}

// Info emits a local informational record. No durable write.
func (r *Recorder) Info(msg string, fields ...zap.Field) {
	r.logger.Info(msg, fields...)
}

// Classify maps an error to a record type.
func Classify(err error) Type {
	switch {
	case err == nil:
		return TypeUnknown
	case errors.Is(err, validate.ErrEmptyName),
		errors.Is(err, validate.ErrNameTooLong),
		errors.Is(err, validate.ErrEmptyText),
		errors.Is(err, validate.ErrTextTooLong),
		errors.Is(err, validate.ErrInvalidEmail),
		errors.Is(err, validate.ErrWeakPassword),
		errors.Is(err, validate.ErrEmptyDisplay),
		errors.Is(err, validate.ErrDisplayTooLong):
		return TypeValidation
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAlreadyExists):
		return TypeDatabase
	default:
		return TypeUnknown
	}
}
