package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCityDemand(c *gin.Context) {
	cityID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_city_id", "invalid city id"))
		return
	}

	metrics, err := s.demandSvc.Metrics(c.Request.Context(), cityID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metrics})
}
