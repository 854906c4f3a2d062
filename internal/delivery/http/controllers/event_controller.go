package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

// EventRequest is the request body for POST /api/events and PUT /api/events/{eventID}.
type EventRequest struct {
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	Location        string    `json:"location" validate:"max=255"`
	MaxParticipants int       `json:"max_participants" validate:"required,min=1"`
}

// Validate implements helpers.Validator.
func (req *EventRequest) Validate() []string {
	if req.EndTime.Before(req.StartTime) {
		return []string{"end_time must not be before start_time"}
	}
	return nil
}

func (req *EventRequest) patch() domain.EventPatch {
	return domain.EventPatch{
		Title:           &req.Title,
		Description:     &req.Description,
		StartTime:       &req.StartTime,
		EndTime:         &req.EndTime,
		Location:        &req.Location,
		MaxParticipants: &req.MaxParticipants,
	}
}

// PatchEventRequest is the request body for PATCH /api/events/{eventID}. Omitted fields are left unchanged.
type PatchEventRequest struct {
	Title           *string    `json:"title" validate:"omitnil,min=1,max=255"`
	Description     *string    `json:"description"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Location        *string    `json:"location" validate:"omitnil,max=255"`
	MaxParticipants *int       `json:"max_participants" validate:"omitnil,min=1"`
}

func (req *PatchEventRequest) patch() domain.EventPatch {
	return domain.EventPatch{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	}
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError   `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /api/events/list (200).
type EventListSuccessResponse struct {
	Data  *h.Page[*domain.Event] `json:"data"`
	Error *h.APIError            `json:"error"`
}

// PurgeResponse reports how many events a purge removed.
type PurgeResponse struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Paginated list of events ordered by start time. search matches title or location, case-insensitive.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in title and location"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/list [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	params := h.ParsePagination(r)
	filter := domain.EventFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		writeInternalError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, h.NewPage(params, total, events))
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event hosted by the authenticated user. A host may create a limited number of events per rolling 24 hours.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited (daily quota)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Title, req.Description, userID, req.Location, req.StartTime, req.EndTime, req.MaxParticipants, now, now)
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, domain.ErrQuotaExceeded.Error())
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	if _, ok := currentUser(w, r); !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ReplaceEvent godoc
// @Summary Replace an event
// @Description Full update of an event. Host only. max_participants may not drop below the current number of participants.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) ReplaceEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	c.update(w, r, eventID, req.patch())
}

// PatchEvent godoc
// @Summary Partially update an event
// @Description Applies only the supplied fields. Host only. The result must still satisfy the event constraints.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body PatchEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) PatchEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req PatchEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	c.update(w, r, eventID, req.patch())
}

func (c *EventController) update(w http.ResponseWriter, r *http.Request, eventID string, patch domain.EventPatch) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, patch)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Host only. Participants, invitations and feedback are removed with the event.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHostedEvents godoc
// @Summary List events hosted by the current user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/hosted [get]
func (c *EventController) ListHostedEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListHostedEvents(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// ExportCalendar godoc
// @Summary Export an event as iCalendar
// @Tags events
// @Produce text/calendar
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/calendar.ics [get]
func (c *EventController) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	if _, ok := currentUser(w, r); !ok {
		return
	}
	data, err := c.Service.ExportCalendar(r.Context(), eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="event-`+eventID+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PurgeEvents godoc
// @Summary Purge expired events
// @Description Deletes every event created before the retention window. Requires the X-Admin-Token header.
// @Tags admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} helpers.APIResponse "data contains deleted and message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (endpoint disabled)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/purge [post]
func (c *EventController) PurgeEvents(w http.ResponseWriter, r *http.Request) {
	deleted, err := c.Service.PurgeExpiredEvents(r.Context())
	if err != nil {
		writeInternalError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, PurgeResponse{Deleted: deleted, Message: domain.PurgeMessage(deleted)})
}

func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the host can modify this event")
	case errors.Is(err, domain.ErrCapacityBelowParticipants):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, domain.ErrCapacityBelowParticipants.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		writeInternalError(w, r, c.Logger, err)
	}
}
