package imagestate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/taptosell-admin/internal/models"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

// exerciseStore runs the same behaviour checks against any Store.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	front := models.Image{Filename: "/uploads/front.png"}
	back := models.Image{Filename: "/uploads/back.png"}
	side := models.Image{Filename: "/uploads/side.png"}

	imgs, err := store.List(ctx, "form-a", 0)
	require.NoError(t, err)
	assert.Empty(t, imgs)

	require.NoError(t, store.Append(ctx, "form-a", 0, front))
	require.NoError(t, store.Append(ctx, "form-a", 0, back))
	require.NoError(t, store.Append(ctx, "form-a", 2, side))
	require.NoError(t, store.Append(ctx, "form-b", 0, side))

	imgs, err = store.List(ctx, "form-a", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.Image{front, back}, imgs)

	snap, err := store.Snapshot(ctx, "form-a")
	require.NoError(t, err)
	assert.Equal(t, map[int][]models.Image{
		0: {front, back},
		2: {side},
	}, snap)

	require.NoError(t, store.Replace(ctx, "form-a", 0, []models.Image{back}))
	imgs, err = store.List(ctx, "form-a", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.Image{back}, imgs)

	require.NoError(t, store.Clear(ctx, "form-a"))
	snap, err = store.Snapshot(ctx, "form-a")
	require.NoError(t, err)
	assert.Empty(t, snap)

	// Other forms are untouched.
	imgs, err = store.List(ctx, "form-b", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.Image{side}, imgs)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	exerciseStore(t, store)
}

func TestRedisStore_ExpiresAbandonedForms(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "form-x", 0, models.Image{Filename: "/a.png"}))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"form-x"))

	mr.FastForward(2 * time.Hour)
	snap, err := store.Snapshot(ctx, "form-x")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestSession_ReleaseClearsState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := Acquire(store, "form-1")

	require.NoError(t, s.SetDefault(ctx, 0, models.Image{Filename: "/a.png"}))
	require.NoError(t, s.SetDefault(ctx, 1, models.Image{Filename: "/b.png"}))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, s.Release(ctx))
	assert.Equal(t, 0, store.Len())

	// Second release is a no-op.
	require.NoError(t, s.Release(ctx))

	err := s.SetDefault(ctx, 0, models.Image{Filename: "/c.png"})
	assert.ErrorIs(t, err, ErrReleased)
	_, err = s.Snapshot(ctx)
	assert.ErrorIs(t, err, ErrReleased)
	assert.Equal(t, 0, store.Len())
}

// failingClearStore fails the first n calls to Clear.
type failingClearStore struct {
	*MemoryStore
	n int
}

func (s *failingClearStore) Clear(ctx context.Context, formID string) error {
	if s.n > 0 {
		s.n--
		return errors.New("redis down")
	}
	return s.MemoryStore.Clear(ctx, formID)
}

func TestSession_ReleaseRetriesAfterFailedClear(t *testing.T) {
	ctx := context.Background()
	store := &failingClearStore{MemoryStore: NewMemoryStore(), n: 1}
	s := Acquire(store, "form-1")
	require.NoError(t, s.SetDefault(ctx, 0, models.Image{Filename: "/a.png"}))

	assert.EqualError(t, s.Release(ctx), "redis down")
	assert.Equal(t, 1, store.Len())

	// The session is still usable until a release succeeds.
	imgs, err := s.Images(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, imgs, 1)

	require.NoError(t, s.Release(ctx))
	assert.Equal(t, 0, store.Len())
	require.NoError(t, s.Release(ctx))
}
