package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	ruledomain "github.com/fleetrate/fleetrate/internal/rule/domain"
)

type createRuleRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	VehicleID   string            `json:"vehicle_id,omitempty"`
	CityID      string            `json:"city_id,omitempty"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
	Priority    int               `json:"priority"`
	FixedPrice  *float64          `json:"fixed_price,omitempty"`
	Multiplier  *float64          `json:"multiplier,omitempty"`
	MinPrice    *float64          `json:"min_price,omitempty"`
	MaxPrice    *float64          `json:"max_price,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

func (s *Server) CreateRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule := &ruledomain.PricingRule{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		FixedPrice:  req.FixedPrice,
		Multiplier:  req.Multiplier,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
	}
	if strings.TrimSpace(req.VehicleID) != "" {
		id, err := parseID(req.VehicleID)
		if err != nil {
			AbortWithError(c, newValidationError("vehicle_id", "invalid_vehicle_id", "invalid vehicle id"))
			return
		}
		rule.VehicleID = &id
	}
	if strings.TrimSpace(req.CityID) != "" {
		id, err := parseID(req.CityID)
		if err != nil {
			AbortWithError(c, newValidationError("city_id", "invalid_city_id", "invalid city id"))
			return
		}
		rule.CityID = &id
	}
	if len(req.Metadata) > 0 {
		rule.Metadata = datatypes.JSONMap(req.Metadata)
	}

	created, err := s.ruleSvc.Create(c.Request.Context(), rule)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": created})
}

func (s *Server) ListRules(c *gin.Context) {
	rules, err := s.ruleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rules})
}

func (s *Server) DeactivateRule(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_rule_id", "invalid rule id"))
		return
	}

	if err := s.ruleSvc.Deactivate(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id.String(), "active": false}})
}
