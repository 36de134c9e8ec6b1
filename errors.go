package pagecache

import "github.com/arda-db/dbcache/internal/cerr"

// Kind classifies a CacheError. See spec §7 for the full taxonomy; the
// fourth kind, IO failure, is never wrapped here — it is the writer's own
// error, propagated unchanged. Shared with the lirs package via
// internal/cerr, since both cores report through the same three kinds.
type Kind = cerr.Kind

const (
	InvalidArgument   = cerr.InvalidArgument
	InvalidState      = cerr.InvalidState
	InternalInvariant = cerr.InternalInvariant
)

// CacheError is returned for all non-IO failure modes.
type CacheError = cerr.CacheError

// KindError builds a sentinel usable with errors.Is to test for a Kind
// without caring about Param/Value/Msg.
func KindError(k Kind) error { return cerr.KindError(k) }

var (
	invalidArgument   = cerr.NewInvalidArgument
	invalidState      = cerr.NewInvalidState
	internalInvariant = cerr.NewInternalInvariant
)
