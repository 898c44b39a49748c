package ctxlogger

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type correlationKey struct{}

var serviceName atomic.Pointer[string]

// SetServiceName configures the service name added to every log entry.
func SetServiceName(name string) {
	serviceName.Store(&name)
}

// WithCorrelationID annotates the context with a correlation ID.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	if cid == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, cid)
}

// EnsureCorrelationID returns the context's correlation ID, minting one when absent.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if cid := CorrelationID(ctx); cid != "" {
		return ctx, cid
	}
	cid := uuid.NewString()
	return WithCorrelationID(ctx, cid), cid
}

// CorrelationID returns the correlation ID stored in the context, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if cid, ok := ctx.Value(correlationKey{}).(string); ok {
		return cid
	}
	return ""
}

// FromContext returns a logger enriched with correlation metadata from context.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext enriches the provided logger using metadata in the context.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil {
		return base
	}

	fields := make([]zap.Field, 0, 3)
	if cid := CorrelationID(ctx); cid != "" {
		fields = append(fields, zap.String("correlation_id", cid))
	}

	name := "unknown"
	if namePtr := serviceName.Load(); namePtr != nil {
		name = *namePtr
	}
	fields = append(fields, zap.String("service", name))

	return base.With(fields...)
}
