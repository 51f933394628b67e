package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/internal/auth"
)

type fakeStore struct {
	users   map[string]auth.User
	tokens  map[uuid.UUID]auth.Token
	touched map[uuid.UUID]time.Time
	lookups int
	fail    error
	mu      sync.Mutex
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[string]auth.User{},
		tokens:  map[uuid.UUID]auth.Token{},
		touched: map[uuid.UUID]time.Time{},
	}
}

func (f *fakeStore) UpsertUser(_ context.Context, email, name string) (auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	u := auth.User{ID: int64(len(f.users) + 1), Email: email, Name: name}
	f.users[email] = u
	return u, nil
}

func (f *fakeStore) CreateToken(_ context.Context, t auth.Token) (auth.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.ID] = t
	return t, nil
}

func (f *fakeStore) TokenByID(_ context.Context, id uuid.UUID) (auth.Token, auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.fail != nil {
		return auth.Token{}, auth.User{}, f.fail
	}
	t, ok := f.tokens[id]
	if !ok {
		return auth.Token{}, auth.User{}, auth.ErrNotFound
	}
	for _, u := range f.users {
		if u.ID == t.UserID {
			return t, u, nil
		}
	}
	return auth.Token{}, auth.User{}, auth.ErrNotFound
}

func (f *fakeStore) TouchToken(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[id] = at
	return nil
}

func (f *fakeStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.tokens {
		if t.Expired(now) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

func TestCreateToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := auth.NewService(store)

	issued, err := svc.CreateToken(context.Background(), " Dev@Example.com ", "ci", 0)
	require.NoError(t, err)

	id, secret, ok := strings.Cut(issued.Plaintext, "|")
	require.True(t, ok)
	assert.Equal(t, issued.Token.ID.String(), id)
	assert.Len(t, secret, 40)
	assert.NotContains(t, issued.Token.Hash, secret)
	assert.Len(t, issued.Token.Hash, 64)
	assert.Equal(t, "dev@example.com", issued.User.Email)
	assert.Equal(t, "dev", issued.User.Name)
	assert.Nil(t, issued.Token.ExpiresAt)

	again, err := svc.CreateToken(context.Background(), "dev@example.com", "ci", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, issued.User.ID, again.User.ID, "user is reused")
	assert.NotEqual(t, issued.Plaintext, again.Plaintext)
	assert.NotNil(t, again.Token.ExpiresAt)

	_, err = svc.CreateToken(context.Background(), "  ", "ci", 0)
	require.ErrorIs(t, err, auth.ErrInvalidEmail)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("valid token is cached", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := auth.NewService(store)
		issued, err := svc.CreateToken(context.Background(), "a@example.com", "ci", 0)
		require.NoError(t, err)

		for range 3 {
			p, err := svc.Verify(context.Background(), issued.Plaintext)
			require.NoError(t, err)
			assert.Equal(t, issued.User.ID, p.UserID)
			assert.Equal(t, issued.Token.ID, p.TokenID)
			assert.Equal(t, "a@example.com", p.Email)
		}
		assert.Equal(t, 1, store.lookups)
		assert.Contains(t, store.touched, issued.Token.ID)
	})

	t.Run("rejections", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := auth.NewService(store)
		issued, err := svc.CreateToken(context.Background(), "a@example.com", "ci", 0)
		require.NoError(t, err)
		id, _, _ := strings.Cut(issued.Plaintext, "|")

		for _, plain := range []string{
			"",
			"no-separator",
			"not-a-uuid|" + strings.Repeat("a", 40),
			id + "|short",
			id + "|" + strings.Repeat("z", 40),
			id + "|" + strings.Repeat("a", 40),
			uuid.NewString() + "|" + strings.Repeat("a", 40),
		} {
			_, err := svc.Verify(context.Background(), plain)
			require.Error(t, err, plain)
			assert.True(t, auth.IsRejected(err), plain)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		store := newFakeStore()
		svc := auth.NewService(store, auth.WithClock(clock))
		issued, err := svc.CreateToken(context.Background(), "a@example.com", "ci", time.Minute)
		require.NoError(t, err)

		_, err = svc.Verify(context.Background(), issued.Plaintext)
		require.NoError(t, err)

		later := auth.NewService(store, auth.WithClock(func() time.Time { return now.Add(2 * time.Minute) }))
		_, err = later.Verify(context.Background(), issued.Plaintext)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
		assert.True(t, auth.IsRejected(err))
	})

	t.Run("store failure is not a rejection", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := auth.NewService(store)
		issued, err := svc.CreateToken(context.Background(), "a@example.com", "ci", 0)
		require.NoError(t, err)

		store.fail = errors.New("connection reset")
		_, err = svc.Verify(context.Background(), issued.Plaintext)
		require.Error(t, err)
		assert.False(t, auth.IsRejected(err))
	})
}

func TestPruneExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := auth.NewService(store, auth.WithClock(func() time.Time { return now }))

	_, err := svc.CreateToken(context.Background(), "a@example.com", "short", time.Minute)
	require.NoError(t, err)
	_, err = svc.CreateToken(context.Background(), "a@example.com", "forever", 0)
	require.NoError(t, err)

	n, err := svc.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	later := auth.NewService(store, auth.WithClock(func() time.Time { return now.Add(time.Hour) }))
	n, err = later.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Len(t, store.tokens, 1)
}
