// Package evictionid tags each degraded-mode eviction warning with a
// fresh correlation id. An eviction pass logs at most one such warning
// before it gives up, so the id marks that one pass's warning in the
// trace.
package evictionid

import uuid "github.com/satori/go.uuid"

// New returns a fresh correlation id as a string suitable for a
// zap.String field.
func New() string {
	return uuid.NewV4().String()
}
