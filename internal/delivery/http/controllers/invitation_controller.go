package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	h "eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

// SendInvitationRequest is the request body for POST /api/events/{eventID}/invitations.
type SendInvitationRequest struct {
	Invitee string `json:"invitee" validate:"required,uuid"`
}

// RespondInvitationRequest is the request body for PATCH /api/events/{eventID}/invitation.
type RespondInvitationRequest struct {
	Status string `json:"status" validate:"required"`
}

// InvitationSuccessResponse is the success response envelope for endpoints returning one invitation.
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *h.APIError        `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// SendInvitation godoc
// @Summary Invite a user to an event
// @Description Host only. The invitee receives an email when they have an address.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SendInvitationRequest true "Invitee user id"
// @Success 201 {object} controllers.InvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) SendInvitation(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req SendInvitationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	// Already validated as a UUID; stored ids are lowercase.
	invitee := uuid.MustParse(req.Invitee).String()
	inv, err := c.Service.Send(r.Context(), eventID, userID, invitee)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the host can send invitations")
		case errors.Is(err, domain.ErrAlreadyInvited):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Invitation already sent")
		case errors.Is(err, domain.ErrSelfInvitation), errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// RespondInvitation godoc
// @Summary Accept or decline an invitation
// @Description Answers the caller's own pending invitation for the event.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body RespondInvitationRequest true "ACCEPTED or DECLINED"
// @Success 200 {object} controllers.InvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already answered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitation [patch]
func (c *InvitationController) RespondInvitation(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req RespondInvitationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	status, known := domain.ParseInvitationStatus(req.Status)
	if !known || !status.IsResponse() {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, domain.ErrInvalidStatus.Error())
		return
	}
	inv, err := c.Service.Respond(r.Context(), eventID, userID, status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, domain.ErrInvalidStatus.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "invitation not found")
		case errors.Is(err, domain.ErrAlreadyResponded):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, domain.ErrAlreadyResponded.Error())
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// ListEventInvitations godoc
// @Summary List invitations sent for an event
// @Description Host only. Optional status filter (PENDING, ACCEPTED, DECLINED).
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param status query string false "Invitation status"
// @Success 200 {object} helpers.APIResponse "data is an array of invitations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [get]
func (c *InvitationController) ListEventInvitations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	invitations, err := c.Service.ListForEvent(r.Context(), eventID, userID, status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the host can view invitations")
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	writeInvitations(w, invitations)
}

// ListReceivedInvitations godoc
// @Summary List invitations received by the current user
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Invitation status"
// @Success 200 {object} helpers.APIResponse "data is an array of invitations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [get]
func (c *InvitationController) ListReceivedInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	invitations, err := c.Service.ListReceived(r.Context(), userID, status)
	if err != nil {
		writeInternalError(w, r, c.Logger, err)
		return
	}
	writeInvitations(w, invitations)
}

// statusFilter reads the optional status query parameter. Empty means all statuses.
func statusFilter(w http.ResponseWriter, r *http.Request) (domain.InvitationStatus, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return "", true
	}
	status, ok := domain.ParseInvitationStatus(raw)
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "status must be PENDING, ACCEPTED or DECLINED")
		return "", false
	}
	return status, true
}

func writeInvitations(w http.ResponseWriter, invitations []*domain.Invitation) {
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, invitations)
}
