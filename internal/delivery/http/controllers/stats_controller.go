package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// RecordHit godoc
// @Summary Record one endpoint hit
// @Tags stats
// @Accept json
// @Param hit body domain.Hit true "App, URI, IP, timestamp"
// @Success 201
// @Failure 400 {object} helpers.APIError
// @Router /hit [post]
func (c *StatsController) RecordHit(w http.ResponseWriter, r *http.Request) {
	var hit domain.Hit
	if !helpers.Decode(w, r, &hit) {
		return
	}
	if err := c.Service.RecordHit(r.Context(), hit); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetStats godoc
// @Summary Aggregate view counts per URI
// @Tags stats
// @Produce json
// @Param start query string true "Window start (yyyy-MM-dd HH:mm:ss)"
// @Param end query string true "Window end"
// @Param uris query []string false "Restrict to these URIs"
// @Param unique query bool false "Count distinct IPs instead of raw hits"
// @Success 200 {array} domain.URIStats
// @Failure 400 {object} helpers.APIError
// @Router /stats [get]
func (c *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := helpers.QueryTime(q, "start")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	end, err := helpers.QueryTime(q, "end")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if start == nil || end == nil {
		writeServiceError(c.Logger, w, r,
			fmt.Errorf("start and end are required: %w", domain.ErrInvalidInput))
		return
	}
	unique, err := helpers.QueryBool(q, "unique")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	filter := domain.StatsFilter{
		Start: *start,
		End:   *end,
		URIs:  helpers.QueryStrings(q, "uris"),
	}
	if unique != nil {
		filter.Unique = *unique
	}
	stats, err := c.Service.GetStats(r.Context(), filter)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, stats)
}
