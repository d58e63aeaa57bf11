package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	pricingdomain "github.com/fleetrate/fleetrate/internal/pricing/domain"
)

// rateLimitQuotes throttles quote traffic per client IP when a limiter
// is configured. Without one the middleware is a no-op.
func (s *Server) rateLimitQuotes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.quoteLimiter == nil {
			c.Next()
			return
		}

		allowed, retryAfter := s.quoteLimiter.Allow(c.Request.Context(), c.ClientIP())
		if !allowed {
			if retryAfter > 0 {
				c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error: errorPayload{
					Type:    "rate_limited",
					Message: "too many quote requests",
				},
			})
			return
		}
		c.Next()
	}
}

type quoteRequest struct {
	VehicleID  string    `json:"vehicle_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	CustomerID string    `json:"customer_id,omitempty"`
	Persist    bool      `json:"persist"`
}

type previewRequest struct {
	VehicleIDs []string  `json:"vehicle_ids"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	vehicleID, err := parseID(req.VehicleID)
	if err != nil {
		AbortWithError(c, newValidationError("vehicle_id", "invalid_vehicle_id", "invalid vehicle id"))
		return
	}

	var customerID *snowflake.ID
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := parseID(req.CustomerID)
		if err != nil {
			AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer id"))
			return
		}
		customerID = &id
	}

	quote, err := s.pricingSvc.Calculate(c.Request.Context(), pricingdomain.QuoteRequest{
		VehicleID:  vehicleID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CustomerID: customerID,
		Persist:    req.Persist,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) PreviewQuotes(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.VehicleIDs) == 0 {
		AbortWithError(c, newValidationError("vehicle_ids", "invalid_vehicle_ids", "at least one vehicle id is required"))
		return
	}

	ids := make([]snowflake.ID, 0, len(req.VehicleIDs))
	for _, raw := range req.VehicleIDs {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("vehicle_ids", "invalid_vehicle_ids", "invalid vehicle id"))
			return
		}
		ids = append(ids, id)
	}

	items, err := s.pricingSvc.Preview(c.Request.Context(), ids, req.StartDate, req.EndDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
