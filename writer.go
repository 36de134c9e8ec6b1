package pagecache

import "github.com/arda-db/dbcache/tracing"

// CacheWriter is the storage engine's collaborator: the cache calls into
// it to commit the write-ahead log and to persist dirty records during
// eviction. The cache never retains a record after WriteBack returns, and
// a writer must never mutate a record's link fields (those belong to the
// cache).
type CacheWriter interface {
	// FlushLog commits the write-ahead log up to the point required
	// before any dirty page may be written back. The cache guarantees
	// FlushLog has been called at least once before the first WriteBack
	// of a given eviction pass.
	FlushLog() error

	// WriteBack synchronously persists one dirty record.
	WriteBack(r Record) error

	// GetTrace returns the tracing handle used only for diagnostic
	// messages when eviction fails to free enough memory.
	GetTrace() tracing.Tracer
}
