package oplog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"taskit/internal/domain"
	"taskit/internal/validate"
)

type failingStore struct {
	inserts int
}

func (s *failingStore) Insert(_ context.Context, _ Record) error {
	s.inserts++
	return errors.New("store unavailable")
}

func (s *failingStore) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestRecorder_ErrorSwallowsStoreFailure(t *testing.T) {
	store := &failingStore{}
	rec := NewRecorder(zap.NewNop(), store)

	assert.NotPanics(t, func() {
		rec.Error(context.Background(), Record{
			Module:    "categories",
			Operation: "add",
			Message:   "boom",
		})
	})
	assert.Equal(t, 1, store.inserts)
}

func TestRecorder_NilStoreIsLocalOnly(t *testing.T) {
	rec := NewRecorder(zap.NewNop(), nil)
	assert.NotPanics(t, func() {
		rec.Error(context.Background(), Record{Module: "tasks", Operation: "update", Message: "boom"})
	})
}

func TestRecorder_ErrorSurvivesCancelledContext(t *testing.T) {
	store := &failingStore{}
	rec := NewRecorder(zap.NewNop(), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		rec.Error(ctx, Record{Module: "tasks", Operation: "delete", Message: "boom"})
	})
	// The durable write must still be attempted on its own context.
	assert.Equal(t, 1, store.inserts)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Type
	}{
		{name: "nil", err: nil, want: TypeUnknown},
		{name: "empty name", err: validate.ErrEmptyName, want: TypeValidation},
		{name: "long text", err: validate.ErrTextTooLong, want: TypeValidation},
		{name: "weak password", err: validate.ErrWeakPassword, want: TypeValidation},
		{name: "not found", err: domain.ErrNotFound, want: TypeDatabase},
		{name: "already exists", err: domain.ErrAlreadyExists, want: TypeDatabase},
		{name: "anything else", err: errors.New("weird"), want: TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
