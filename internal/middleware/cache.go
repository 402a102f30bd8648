package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movie-catalog/internal/config"
    "github.com/iliyamo/movie-catalog/internal/logger"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
        cw.buf.Write(b)
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// overflow reports whether the body outgrew the capture limit.
func (cw *captureWriter) overflow() bool { return cw.limit > 0 && cw.size > cw.limit }

// ResponseCache caches GET responses in Redis.  Visibility differs per user,
// so the key includes the caller; it also includes the resource's current
// generation, which Bump increments on every write.  Old generations are
// never read again and expire with their TTL.
type ResponseCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

// NewResponseCache returns nil-safe cache: with caching disabled or no
// Redis client both Middleware and Bump are no-ops.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) active() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

func (rc *ResponseCache) genKey(resource string) string {
    return fmt.Sprintf("%s:gen:%s", rc.cfg.Prefix, resource)
}

// Bump invalidates every cached response of the given resources.
func (rc *ResponseCache) Bump(ctx context.Context, resources ...string) error {
    if !rc.active() {
        return nil
    }
    pipe := rc.rdb.Pipeline()
    for _, r := range resources {
        pipe.Incr(ctx, rc.genKey(r))
    }
    _, err := pipe.Exec(ctx)
    return err
}

// generation returns the resource generation, 0 when unset.
func (rc *ResponseCache) generation(ctx context.Context, resource string) (int64, error) {
    n, err := rc.rdb.Get(ctx, rc.genKey(resource)).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return n, err
}

// cacheKey builds a stable key from route, query, user and generation.
func cacheKey(prefix, resource, route, query, user string, gen int64) string {
    tail := strings.Join([]string{resource, route, query, user, fmt.Sprint(gen)}, "\x00")
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%s:%x", prefix, resource, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    hdr := make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, hdr, bs[8+hlen:], true
}

// Middleware caches successful reads of one resource.  It must run after
// JWTAuth so the key carries the caller.
func (rc *ResponseCache) Middleware(resource string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !rc.active() || !rc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            gen, err := rc.generation(ctx, resource)
            if err != nil {
                logger.Warn("cache generation lookup failed", "resource", resource, "err", err)
                return next(c)
            }
            key := cacheKey(rc.cfg.Prefix, resource, c.Path(), c.Request().URL.RawQuery, keyUserID(c), gen)

            if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            }

            // Miss: capture
            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(rc.cfg.MaxBodyBytes)}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.overflow() {
                return nil
            }
            hdr := c.Response().Header().Clone()
            payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
            if err != nil {
                return nil
            }
            if err := rc.rdb.SetEx(context.Background(), key, payload, rc.cfg.TTL).Err(); err != nil {
                logger.Warn("cache store failed", "key", key, "err", err)
            }
            return nil
        }
    }
}
