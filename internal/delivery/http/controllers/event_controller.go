package controllers

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Stats   domain.StatsClient
	AppName string
}

func NewEventController(logger *slog.Logger, svc domain.EventService, stats domain.StatsClient, appName string) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Stats:   stats,
		AppName: appName,
	}
}

// recordHit reports the request to the stats collector. Failures are
// logged and never affect the response.
func (c *EventController) recordHit(r *http.Request) {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	err := c.Stats.RecordHit(r.Context(), domain.Hit{
		App:       c.AppName,
		URI:       r.URL.Path,
		IP:        ip,
		Timestamp: domain.NewDateTime(time.Now()),
	})
	if err != nil {
		c.Logger.WarnContext(r.Context(), "hit not recorded", "uri", r.URL.Path, "err", err)
	}
}

// Create godoc
// @Summary Create a new event
// @Tags events
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param event body domain.NewEvent true "Event data"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Router /users/{userId}/events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var in domain.NewEvent
	if !helpers.Decode(w, r, &in) {
		return
	}
	event, err := c.Service.Create(r.Context(), userID, in)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// ListByUser godoc
// @Summary List the user's own events
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Success 200 {array} domain.Event
// @Router /users/{userId}/events [get]
func (c *EventController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	events, err := c.Service.ListByUser(r.Context(), userID, page)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// GetUserEvent godoc
// @Summary Get one of the user's own events
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 404 {object} helpers.APIError
// @Router /users/{userId}/events/{eventId} [get]
func (c *EventController) GetUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	event, err := c.Service.GetUserEvent(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// UpdateByUser godoc
// @Summary Update the user's own event
// @Tags events
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param patch body domain.EventPatch true "Fields to change"
// @Success 200 {object} domain.Event
// @Failure 409 {object} helpers.APIError
// @Router /users/{userId}/events/{eventId} [patch]
func (c *EventController) UpdateByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var patch domain.EventPatch
	if !helpers.Decode(w, r, &patch) {
		return
	}
	event, err := c.Service.UpdateByUser(r.Context(), userID, eventID, patch)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// UpdateByAdmin godoc
// @Summary Moderate or update any event
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "Event ID"
// @Param patch body domain.EventPatch true "Fields to change"
// @Success 200 {object} domain.Event
// @Failure 409 {object} helpers.APIError
// @Router /admin/events/{eventId} [patch]
func (c *EventController) UpdateByAdmin(w http.ResponseWriter, r *http.Request) {
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var patch domain.EventPatch
	if !helpers.Decode(w, r, &patch) {
		return
	}
	event, err := c.Service.UpdateByAdmin(r.Context(), eventID, patch)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// Search godoc
// @Summary Search published events
// @Tags events
// @Produce json
// @Param text query string false "Free-text match against annotation or description"
// @Param categories query []int false "Category IDs"
// @Param paid query bool false "Paid flag"
// @Param rangeStart query string false "Window start (yyyy-MM-dd HH:mm:ss)"
// @Param rangeEnd query string false "Window end"
// @Param onlyAvailable query bool false "Exclude full events"
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Success 200 {array} domain.Event
// @Router /events [get]
func (c *EventController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	categories, err := helpers.QueryInt64s(q, "categories")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	paid, err := helpers.QueryBool(q, "paid")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	onlyAvailable, err := helpers.QueryBool(q, "onlyAvailable")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	rangeStart, err := helpers.QueryTime(q, "rangeStart")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	rangeEnd, err := helpers.QueryTime(q, "rangeEnd")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	query := domain.PublicSearchQuery{
		Text:       q.Get("text"),
		Categories: categories,
		Paid:       paid,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Sort:       domain.EventSort(q.Get("sort")),
		Page:       page,
	}
	if onlyAvailable != nil {
		query.OnlyAvailable = *onlyAvailable
	}
	events, err := c.Service.SearchPublished(r.Context(), query)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	c.recordHit(r)
	helpers.WriteJSON(w, http.StatusOK, events)
}

// SearchAdmin godoc
// @Summary Search events across all states
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param users query []int false "Initiator IDs"
// @Param states query []string false "Event states"
// @Param categories query []int false "Category IDs"
// @Success 200 {array} domain.Event
// @Router /admin/events [get]
func (c *EventController) SearchAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	users, err := helpers.QueryInt64s(q, "users")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	categories, err := helpers.QueryInt64s(q, "categories")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var states []domain.EventState
	for _, s := range helpers.QueryStrings(q, "states") {
		state, ok := domain.ParseEventState(s)
		if !ok {
			helpers.WriteError(w, http.StatusBadRequest, "unknown event state: "+s)
			return
		}
		states = append(states, state)
	}
	rangeStart, err := helpers.QueryTime(q, "rangeStart")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	rangeEnd, err := helpers.QueryTime(q, "rangeEnd")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	events, err := c.Service.SearchAdmin(r.Context(), domain.AdminSearchQuery{
		Users:      users,
		States:     states,
		Categories: categories,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Page:       page,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// GetPublished godoc
// @Summary Get a published event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 404 {object} helpers.APIError
// @Router /events/{id} [get]
func (c *EventController) GetPublished(w http.ResponseWriter, r *http.Request) {
	eventID, err := helpers.PathID(r, "id")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	event, err := c.Service.GetPublished(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	c.recordHit(r)
	helpers.WriteJSON(w, http.StatusOK, event)
}

// ListEventRequests godoc
// @Summary List participation requests for the user's event
// @Tags requests
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {array} domain.Request
// @Router /users/{userId}/events/{eventId}/requests [get]
func (c *EventController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	requests, err := c.Service.ListEventRequests(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, requests)
}

// ChangeRequestStatuses godoc
// @Summary Confirm or reject pending requests for the user's event
// @Tags requests
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param update body domain.StatusUpdate true "Request IDs and target status"
// @Success 200 {object} domain.StatusUpdateResult
// @Failure 409 {object} helpers.APIError
// @Router /users/{userId}/events/{eventId}/requests [patch]
func (c *EventController) ChangeRequestStatuses(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var upd domain.StatusUpdate
	if !helpers.Decode(w, r, &upd) {
		return
	}
	result, err := c.Service.ChangeRequestStatuses(r.Context(), userID, eventID, upd)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}
