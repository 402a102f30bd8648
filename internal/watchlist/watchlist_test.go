package watchlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisStore(rdb, "test:lists")
}

func stores(t *testing.T) map[string]Store {
	_, rs := newRedis(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "lists.json")),
		"redis":  rs,
	}
}

func TestStore_AddRemoveContains(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ids, err := s.List(ctx, "u1", Favorites)
			require.NoError(t, err)
			assert.Empty(t, ids)

			require.NoError(t, s.Add(ctx, "u1", Favorites, "m1"))
			require.NoError(t, s.Add(ctx, "u1", Favorites, "m2"))
			require.NoError(t, s.Add(ctx, "u1", Favorites, "m1")) // idempotent

			ids, err = s.List(ctx, "u1", Favorites)
			require.NoError(t, err)
			assert.Equal(t, []string{"m1", "m2"}, ids)

			in, err := s.Contains(ctx, "u1", Favorites, "m2")
			require.NoError(t, err)
			assert.True(t, in)

			// Lists are per user and per kind.
			ids, _ = s.List(ctx, "u2", Favorites)
			assert.Empty(t, ids)
			ids, _ = s.List(ctx, "u1", Watched)
			assert.Empty(t, ids)

			require.NoError(t, s.Remove(ctx, "u1", Favorites, "m1"))
			require.NoError(t, s.Remove(ctx, "u1", Favorites, "absent"))
			ids, _ = s.List(ctx, "u1", Favorites)
			assert.Equal(t, []string{"m2"}, ids)
		})
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	on, err := Toggle(ctx, s, "u", Watched, "m")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = Toggle(ctx, s, "u", Watched, "m")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestCorruptValueReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.SetRaw(Key(Favorites, "u"), "{not an array")
	ids, err := s.List(ctx, "u", Favorites)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Add(ctx, "u", Favorites, "m"))
	ids, _ = s.List(ctx, "u", Favorites)
	assert.Equal(t, []string{"m"}, ids)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	s := NewFileStore(path)
	ids, err := s.List(context.Background(), "u", Watched)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "lists.json")
	require.NoError(t, NewFileStore(path).Add(ctx, "u", Watched, "m9"))
	ids, err := NewFileStore(path).List(ctx, "u", Watched)
	require.NoError(t, err)
	assert.Equal(t, []string{"m9"}, ids)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"movie_watched_u"`)
}

func TestParseKindAndKey(t *testing.T) {
	k, err := ParseKind("favorites")
	require.NoError(t, err)
	assert.Equal(t, "movie_favorites_abc", Key(k, "abc"))
	_, err = ParseKind("later")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewMemoryStore().List(context.Background(), "u", Kind("later"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRedisStore_ReadFailureKeepsStoredList(t *testing.T) {
	ctx := context.Background()
	mr, s := newRedis(t)
	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, s.Add(ctx, "u", Favorites, id))
	}
	assert.Equal(t, `["m1","m2","m3"]`, mustGet(t, mr, "test:lists:movie_favorites_u"))

	mr.SetError("ERR server unavailable")
	ids, err := s.List(ctx, "u", Favorites)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Error(t, s.Add(ctx, "u", Favorites, "m4"))
	assert.Error(t, s.Remove(ctx, "u", Favorites, "m1"))

	mr.SetError("")
	ids, err = s.List(ctx, "u", Favorites)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
}

func TestStore_ConcurrentAddsAreKept(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			const n = 8
			var wg sync.WaitGroup
			errs := make([]error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = s.Add(ctx, "u", Watched, fmt.Sprintf("m%d", i))
				}(i)
			}
			wg.Wait()
			for _, err := range errs {
				require.NoError(t, err)
			}

			ids, err := s.List(ctx, "u", Watched)
			require.NoError(t, err)
			sort.Strings(ids)
			assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4", "m5", "m6", "m7"}, ids)
		})
	}
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
