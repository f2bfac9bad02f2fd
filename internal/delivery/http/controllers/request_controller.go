package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// ListByUser godoc
// @Summary List the user's participation requests
// @Tags requests
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} domain.Request
// @Router /users/{userId}/requests [get]
func (c *RequestController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	requests, err := c.Service.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, requests)
}

// Create godoc
// @Summary Apply for participation in an event
// @Tags requests
// @Produce json
// @Param userId path int true "User ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} domain.Request
// @Failure 409 {object} helpers.APIError
// @Router /users/{userId}/requests [post]
func (c *RequestController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	eventID, err := strconv.ParseInt(r.URL.Query().Get("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		writeServiceError(c.Logger, w, r,
			fmt.Errorf("eventId must be a positive integer: %w", domain.ErrInvalidInput))
		return
	}
	request, err := c.Service.Create(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, request)
}

// Cancel godoc
// @Summary Cancel the user's own participation request
// @Tags requests
// @Produce json
// @Param userId path int true "User ID"
// @Param requestId path int true "Request ID"
// @Success 200 {object} domain.Request
// @Failure 409 {object} helpers.APIError
// @Router /users/{userId}/requests/{requestId}/cancel [patch]
func (c *RequestController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	requestID, err := helpers.PathID(r, "requestId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	request, err := c.Service.Cancel(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, request)
}
