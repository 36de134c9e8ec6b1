// Package memcachewriter implements pagecache.CacheWriter over memcached,
// mirroring rediswriter for engines that prefer a memcached-backed
// write-back target.
package memcachewriter

import (
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/arda-db/dbcache"
	"github.com/arda-db/dbcache/tracing"
)

// Payload is the extra capability a Record must provide for this writer
// to persist it.
type Payload interface {
	pagecache.Record
	Bytes() []byte
}

// Writer writes back dirty records to memcached, keyed by decimal
// position.
type Writer struct {
	conn   *memcache.Client
	tracer tracing.Tracer
}

// New wraps an existing memcached client. tracer may be nil, in which
// case diagnostic warnings are discarded.
func New(conn *memcache.Client, tracer tracing.Tracer) *Writer {
	if tracer == nil {
		tracer = tracing.Nop()
	}
	return &Writer{conn: conn, tracer: tracer}
}

// FlushLog is a no-op for the same reason as rediswriter's: memcached
// itself has no log for this writer to wait on.
func (w *Writer) FlushLog() error { return nil }

func (w *Writer) WriteBack(r pagecache.Record) error {
	p, ok := r.(Payload)
	if !ok {
		return fmt.Errorf("memcachewriter: record at pos %d does not implement Payload", r.Pos())
	}
	key := fmt.Sprintf("%d", p.Pos())
	return w.conn.Set(&memcache.Item{Key: key, Value: p.Bytes()})
}

func (w *Writer) GetTrace() tracing.Tracer { return w.tracer }
