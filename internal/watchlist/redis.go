package watchlist

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps lists as Redis strings under an optional prefix.  It
// backs the server's /api/me/lists endpoints.
type RedisStore struct {
	listStore
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{listStore{kv: redisKV{rdb: rdb, prefix: prefix}}}
}

const maxTxRetries = 10

// ErrConflict is returned when a list kept changing under every retry.
var ErrConflict = errors.New("list changed concurrently")

type redisKV struct {
	rdb    *redis.Client
	prefix string
}

func (r redisKV) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r redisKV) get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// update is an optimistic transaction: the key is watched while fn runs
// and the write is retried when another client changed it first.
func (r redisKV) update(ctx context.Context, key string, fn func(string) (string, bool)) error {
	k := r.key(key)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, k).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next, changed := fn(raw)
		if !changed {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}
	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, k)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrConflict
}
