package account

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskit/internal/domain"
	tokenrepo "taskit/internal/repository/token"
	"taskit/internal/validate"
)

type memUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byEmail[u.Email] = &u
	clone := u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memTokenRepo struct {
	byToken map[string]tokenrepo.Token
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byToken: map[string]tokenrepo.Token{}}
}

func (r *memTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := r.byToken[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	r.byToken[t.Token] = t
	return nil
}

func (r *memTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.byToken, token)
	return nil
}

func newTestService() (*Service, *memUserRepo, *memTokenRepo) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	return New(users, tokens), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	logged, access, refresh, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "  Alice@Example.COM ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, _, _, err = svc.Login(ctx, "ALICE@example.com", "secret1")
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "not-an-email", "secret1")
	assert.ErrorIs(t, err, validate.ErrInvalidEmail)

	_, err = svc.Register(ctx, "Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, validate.ErrWeakPassword)

	_, err = svc.Register(ctx, "   ", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, validate.ErrEmptyDisplay)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "alice@example.com", "wrong99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLookupByToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, access, refresh, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	got, err := svc.LookupByToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// Refresh tokens are not session tokens.
	_, err = svc.LookupByToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.LookupByToken(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLookupByTokenExpired(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, access, _, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	stale := tokens.byToken[access]
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.byToken[access] = stale

	_, err = svc.LookupByToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired tokens are deleted on sight.
	_, ok := tokens.byToken[access]
	assert.False(t, ok)
}
