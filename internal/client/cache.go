package client

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// maxRecords bounds the single-record cache.
const maxRecords = 512

// queryCache holds decoded API reads under keys like "movies" and
// "movie:<id>".  Lists live in a TTL cache; single records, which grow with
// browsing, live in a bounded LRU with the same TTL.
type queryCache struct {
	lists   *cache.Cache
	records *lru.Cache[string, cached]
	ttl     time.Duration
}

type cached struct {
	value     any
	expiresAt time.Time
}

func newQueryCache(ttl time.Duration) *queryCache {
	records, _ := lru.New[string, cached](maxRecords)
	return &queryCache{
		lists:   cache.New(ttl, 2*ttl),
		records: records,
		ttl:     ttl,
	}
}

func isRecordKey(key string) bool { return strings.Contains(key, ":") }

func (q *queryCache) get(key string) (any, bool) {
	if !isRecordKey(key) {
		return q.lists.Get(key)
	}
	item, ok := q.records.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		q.records.Remove(key)
		return nil, false
	}
	return item.value, true
}

func (q *queryCache) set(key string, v any) {
	if !isRecordKey(key) {
		q.lists.Set(key, v, cache.DefaultExpiration)
		return
	}
	q.records.Add(key, cached{value: v, expiresAt: time.Now().Add(q.ttl)})
}

// invalidate drops exact keys.  A key ending in ":" drops every record
// under that prefix.
func (q *queryCache) invalidate(keys ...string) {
	for _, k := range keys {
		if strings.HasSuffix(k, ":") {
			for _, rk := range q.records.Keys() {
				if strings.HasPrefix(rk, k) {
					q.records.Remove(rk)
				}
			}
			continue
		}
		if isRecordKey(k) {
			q.records.Remove(k)
		} else {
			q.lists.Delete(k)
		}
	}
}

func (q *queryCache) flush() {
	q.lists.Flush()
	q.records.Purge()
}
