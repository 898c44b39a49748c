package orgcontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// OwnerContextKey is the request context key for the active owner (merchant) ID.
type OwnerContextKey struct{}

// WithOwnerID stores the owner ID in the context.
func WithOwnerID(ctx context.Context, ownerID snowflake.ID) context.Context {
	return context.WithValue(ctx, OwnerContextKey{}, ownerID)
}

// OwnerIDFromContext returns the owner ID from context, if set.
func OwnerIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(OwnerContextKey{})
	if value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
