// Package tracing supplies the diagnostic-logging collaborator Core A
// consults through CacheWriter.GetTrace. It exists so the cache itself
// never imports a concrete logging library directly — only this narrow
// Tracer contract.
package tracing

import "go.uber.org/zap"

// Tracer is the narrow interface the cache calls into only when an
// eviction pass fails to free enough memory (a degraded-mode warning, not
// a failure).
type Tracer interface {
	Warn(msg string, fields ...zap.Field)
}

// zapTracer adapts a *zap.Logger to Tracer.
type zapTracer struct {
	log *zap.Logger
}

// NewZap wraps a *zap.Logger as a Tracer. A nil logger is replaced with
// zap.NewNop(), so callers that don't care about diagnostics pay nothing.
func NewZap(log *zap.Logger) Tracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &zapTracer{log: log}
}

func (z *zapTracer) Warn(msg string, fields ...zap.Field) {
	z.log.Warn(msg, fields...)
}

// Nop returns a Tracer that discards everything, for callers that don't
// need diagnostics (e.g. most unit tests).
func Nop() Tracer {
	return NewZap(nil)
}
