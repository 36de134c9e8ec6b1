// Package rediswriter implements pagecache.CacheWriter over a Redis
// connection, for engines that want their write-back target to be a
// remote key/value store rather than local disk.
package rediswriter

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/arda-db/dbcache"
	"github.com/arda-db/dbcache/tracing"
)

// Payload is the extra capability a Record must provide for this writer
// to persist it: the cache's Record interface only carries identity and
// bookkeeping bits, not a page's actual bytes.
type Payload interface {
	pagecache.Record
	Bytes() []byte
}

// Writer writes back dirty records to Redis, keyed by decimal position.
type Writer struct {
	conn   *redis.Client
	tracer tracing.Tracer
}

// New wraps an existing Redis client. tracer may be nil, in which case
// diagnostic warnings are discarded.
func New(conn *redis.Client, tracer tracing.Tracer) *Writer {
	if tracer == nil {
		tracer = tracing.Nop()
	}
	return &Writer{conn: conn, tracer: tracer}
}

// FlushLog is a no-op: Redis has no write-ahead log for this writer to
// wait on. It exists to satisfy pagecache.CacheWriter's ordering
// contract for engines that layer a real log in front of this writer.
func (w *Writer) FlushLog() error { return nil }

func (w *Writer) WriteBack(r pagecache.Record) error {
	p, ok := r.(Payload)
	if !ok {
		return fmt.Errorf("rediswriter: record at pos %d does not implement Payload", r.Pos())
	}
	key := fmt.Sprintf("%d", p.Pos())
	return w.conn.Set(context.Background(), key, p.Bytes(), 0).Err()
}

func (w *Writer) GetTrace() tracing.Tracer { return w.tracer }
