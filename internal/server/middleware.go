package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/segmenta/internal/orgcontext"
	"github.com/smallbiznis/segmenta/pkg/log/ctxlogger"
)

const (
	HeaderOwner         = "X-Owner-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// CorrelationID propagates the inbound correlation ID, minting one when the
// caller did not send any, so log lines for one request can be joined.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxlogger.WithCorrelationID(c.Request.Context(), strings.TrimSpace(c.GetHeader(HeaderCorrelationID)))
		ctx, cid := ctxlogger.EnsureCorrelationID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderCorrelationID, cid)
		c.Next()
	}
}

// OwnerContext resolves the acting owner from the request header and injects
// it into the request context. Every /v1 route requires it.
func OwnerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderOwner))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ownerID, err := snowflake.ParseString(raw)
		if err != nil || ownerID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := orgcontext.WithOwnerID(c.Request.Context(), ownerID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
