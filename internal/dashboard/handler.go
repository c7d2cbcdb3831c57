package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httperr "github.com/glucolab/glucodash/internal/core/errors"
	"github.com/glucolab/glucodash/internal/core/glucose"
	"github.com/glucolab/glucodash/internal/nightscout"
)

// RegisterRoutes registers all dashboard routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/", s.HandleIndex)
	r.GET("/api/glucose", s.HandleLatestGlucose)
	r.GET("/v1/averages/:day", s.HandleDayAverages)
}

// HandleIndex serves the full-screen display page.
func (s *Service) HandleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// latestResponse mirrors what the display page expects.
type latestResponse struct {
	Value     int64  `json:"value"`
	Timestamp string `json:"timestamp"`
	Units     string `json:"units"`
	Direction string `json:"direction"`
}

// HandleLatestGlucose handles GET /api/glucose.
// Proxies the newest reading from the remote server; nothing is persisted.
func (s *Service) HandleLatestGlucose(c *gin.Context) {
	entry, err := s.FetchLatest(c.Request.Context())
	if err != nil {
		if errors.Is(err, nightscout.ErrNoEntries) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNoDataError,
				Message:   "No readings available",
			})
			return
		}
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpUpstreamError,
			Message:   "Failed to reach glucose server",
			Details:   err.Error(),
		})
		return
	}

	if entry.SGV == nil {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNoDataError,
			Message:   "Latest entry carries no glucose value",
		})
		return
	}

	units := entry.Units
	if units == "" {
		units = "mg/dL"
	}
	c.JSON(http.StatusOK, latestResponse{
		Value:     *entry.SGV,
		Timestamp: entry.DateString,
		Units:     units,
		Direction: entry.Direction,
	})
}

type dayAveragesResponse struct {
	Day      string                  `json:"day"`
	Averages []glucose.MinuteAverage `json:"averages"`
}

// HandleDayAverages handles GET /v1/averages/:day (day as 2006-01-02).
// Serves stored aggregates only; it never triggers a fetch.
func (s *Service) HandleDayAverages(c *gin.Context) {
	day, err := glucose.ParseDate(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid day, expected YYYY-MM-DD",
			Details:   err.Error(),
		})
		return
	}

	averages, err := s.store.QueryDay(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query minute averages",
			Details:   err.Error(),
		})
		return
	}

	if averages == nil {
		averages = []glucose.MinuteAverage{}
	}
	c.JSON(http.StatusOK, dayAveragesResponse{
		Day:      day.String(),
		Averages: averages,
	})
}
