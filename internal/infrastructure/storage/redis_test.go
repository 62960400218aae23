package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store, mr
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := newTestRedis(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestRedisStore_PutGet(t *testing.T) {
	store, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "run-1", []byte("payload")))

	// Ключ живет под префиксом, чтобы не толкаться с чужими данными
	assert.True(t, mr.Exists("aethersave:run-1"))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := newTestRedis(t)

	_, err := store.Get(context.Background(), "no-such-save")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ListSorted(t *testing.T) {
	store, mr := newTestRedis(t)
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.Put(ctx, id, []byte(id)))
	}
	// Чужой ключ без префикса в листинг попадать не должен
	mr.Set("unrelated", "x")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ids)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "doomed", []byte("x")))
	require.NoError(t, store.Delete(ctx, "doomed"))

	_, err := store.Get(ctx, "doomed")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "doomed"), ErrNotFound)
}
