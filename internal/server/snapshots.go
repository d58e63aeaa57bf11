package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultSnapshotLimit = 50

func (s *Server) ListVehicleSnapshots(c *gin.Context) {
	vehicleID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_vehicle_id", "invalid vehicle id"))
		return
	}

	limit := defaultSnapshotLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	snapshots, err := s.snapshotRepo.ListByVehicle(c.Request.Context(), s.db, vehicleID, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshots})
}
