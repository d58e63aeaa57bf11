package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	seasonalitydomain "github.com/fleetrate/fleetrate/internal/seasonality/domain"
)

type createSeasonalFactorRequest struct {
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Multiplier float64   `json:"multiplier"`
	CityID     string    `json:"city_id,omitempty"`
}

func (s *Server) CreateSeasonalFactor(c *gin.Context) {
	var req createSeasonalFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := seasonalitydomain.CreateFactorRequest{
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Multiplier: req.Multiplier,
	}
	if strings.TrimSpace(req.CityID) != "" {
		id, err := parseID(req.CityID)
		if err != nil {
			AbortWithError(c, newValidationError("city_id", "invalid_city_id", "invalid city id"))
			return
		}
		create.CityID = &id
	}

	factor, err := s.seasonalitySvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": factor})
}

func (s *Server) ListSeasonalFactors(c *gin.Context) {
	factors, err := s.seasonalitySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": factors})
}

func (s *Server) DeactivateSeasonalFactor(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_factor_id", "invalid factor id"))
		return
	}

	if err := s.seasonalitySvc.Deactivate(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id.String(), "active": false}})
}
