// Package cerr holds the error taxonomy shared by both cores (spec §7):
// Core A's single-threaded page cache and Core B's sharded LIRS cache
// report failures through the same three kinds, so the type lives here
// rather than being duplicated per core.
package cerr

import (
	"errors"
	"fmt"
)

// Kind classifies a CacheError. The fourth kind from the error taxonomy,
// IO failure, is never wrapped here — it is the writer's own error,
// propagated unchanged.
type Kind uint8

const (
	// InvalidArgument marks a bad caller-supplied value: negative memory,
	// a non-power-of-two segment count, an unknown cache type selector,
	// and the like.
	InvalidArgument Kind = iota
	// InvalidState marks a request that cannot be satisfied given the
	// cache's current configuration, e.g. a requested memory budget whose
	// bucket count would overflow int32.
	InvalidState
	// InternalInvariant marks a programming error caught by a consistency
	// check: duplicate insertion at a position/key, mismatched identity on
	// update, corruption of the link structure.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidState:
		return "invalid state"
	case InternalInvariant:
		return "internal invariant violation"
	default:
		return "unknown"
	}
}

// CacheError is returned for all non-IO failure modes. It is never used to
// wrap a writer's flushLog/writeBack error — those propagate unwrapped.
type CacheError struct {
	Kind  Kind
	Param string // offending parameter name, if any
	Value any    // offending value, if any
	Msg   string
}

func (e *CacheError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s=%v: %s", e.Kind, e.Param, e.Value, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is a *CacheError of the same Kind, allowing
// callers to use errors.Is(err, cerr.KindError(cerr.InvalidArgument))
// idioms rather than comparing fields directly.
func (e *CacheError) Is(target error) bool {
	var other *CacheError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// KindError builds a sentinel usable with errors.Is to test for a Kind
// without caring about Param/Value/Msg.
func KindError(k Kind) error {
	return &CacheError{Kind: k}
}

func NewInvalidArgument(param string, value any, msg string) error {
	return &CacheError{Kind: InvalidArgument, Param: param, Value: value, Msg: msg}
}

func NewInvalidState(msg string, args ...any) error {
	return &CacheError{Kind: InvalidState, Msg: fmt.Sprintf(msg, args...)}
}

func NewInternalInvariant(msg string, args ...any) error {
	return &CacheError{Kind: InternalInvariant, Msg: fmt.Sprintf(msg, args...)}
}
