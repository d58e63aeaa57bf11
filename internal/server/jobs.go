package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetrate/fleetrate/internal/scheduler"
)

// RunJob triggers a scheduler job immediately, outside its cadence.
func (s *Server) RunJob(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	name := c.Param("name")
	if err := s.scheduler.RunJob(c.Request.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			AbortWithError(c, ErrNotFound)
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"job": name, "status": "completed"}})
}
