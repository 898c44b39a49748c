package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/segmenta/internal/orgcontext"
	segmentationdomain "github.com/smallbiznis/segmenta/internal/segmentation/domain"
)

// ListSegments returns the freshly computed segmented customer table for the
// acting owner. Nothing is cached; every call recomputes over the full cohort.
func (s *Server) ListSegments(c *gin.Context) {
	ownerID, ok := orgcontext.OwnerIDFromContext(c.Request.Context())
	if !ok || ownerID == 0 {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.segmentSvc.BuildSegments(c.Request.Context(), segmentationdomain.BuildSegmentsRequest{
		OwnerID: ownerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
