package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/segmenta/internal/orgcontext"
)

// RunAlerts triggers alert evaluation for the acting owner on demand, the
// same path the scheduled sweep takes.
func (s *Server) RunAlerts(c *gin.Context) {
	ownerID, ok := orgcontext.OwnerIDFromContext(c.Request.Context())
	if !ok || ownerID == 0 {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.alertRunner.RunForOwner(c.Request.Context(), ownerID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
