package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

// ParticipantsResponse is the data payload of GET /api/events/{eventID}/participants.
type ParticipantsResponse struct {
	EventID      string                     `json:"event_id"`
	Count        int                        `json:"count"`
	Participants []*domain.EventParticipant `json:"participants"`
}

// ParticipantSuccessResponse is the success response envelope for POST /api/events/{eventID}/register (201).
type ParticipantSuccessResponse struct {
	Data  *domain.EventParticipant `json:"data"`
	Error *h.APIError              `json:"error"`
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipantService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Enrolls the authenticated user. Fails when already registered or when the event is at capacity.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already registered, event full)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := c.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "User already registered for this event")
		case errors.Is(err, domain.ErrEventFull):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Event is full")
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, p)
}

// Unregister godoc
// @Summary Cancel a registration
// @Tags participants
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [delete]
func (c *ParticipantController) Unregister(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Unregister(r.Context(), eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "registration not found")
			return
		}
		writeInternalError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListParticipants godoc
// @Summary List the participants of an event
// @Description Host only.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event_id, count and participants"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [get]
func (c *ParticipantController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	participants, err := c.Service.ListParticipants(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the host can view participants")
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	if participants == nil {
		participants = []*domain.EventParticipant{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, ParticipantsResponse{
		EventID:      eventID,
		Count:        len(participants),
		Participants: participants,
	})
}

// ListMyParticipations godoc
// @Summary List the events the current user joined
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of participation + event objects"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/me [get]
func (c *ParticipantController) ListMyParticipations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMyParticipations(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.ParticipationWithEvent{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}
