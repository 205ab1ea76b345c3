package handlers

import (
	"net/http"
	"time"

	"github.com/CourageAllien/studioportal/internal/availability"
	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves bookable consultation slots
type AvailabilityHandler struct {
	window availability.Window
	now    func() time.Time
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(window availability.Window) *AvailabilityHandler {
	return &AvailabilityHandler{
		window: window,
		now:    time.Now,
	}
}

// slotResponse is a single bookable slot rendered in the visitor's timezone
type slotResponse struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Label  string `json:"label"`
}

// Slots handles GET /availability requests.
// Query parameters: date (YYYY-MM-DD, required) and tz (IANA name, default UTC).
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Query parameter 'date' is required (YYYY-MM-DD)",
		})
		return
	}

	tzParam := c.DefaultQuery("tz", "UTC")
	loc, err := time.LoadLocation(tzParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Unknown timezone: " + tzParam,
		})
		return
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateParam, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	date := availability.DateOf(parsed, loc)
	slots := h.window.SlotsFor(date, h.now(), loc)

	response := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		response = append(response, slotResponse{
			Hour:   slot.Hour,
			Minute: slot.Minute,
			Label:  slot.String(),
		})
	}

	logger.WithFields(map[string]interface{}{
		"date":     dateParam,
		"timezone": tzParam,
		"slots":    len(response),
	}).Debug("Availability computed")

	c.JSON(http.StatusOK, gin.H{
		"date":     dateParam,
		"timezone": tzParam,
		"slots":    response,
		"total":    len(response),
	})
}
