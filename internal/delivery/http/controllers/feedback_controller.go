package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

// SubmitFeedbackRequest is the request body for POST /api/events/{eventID}/feedback.
type SubmitFeedbackRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// FeedbackPage is the data payload of GET /api/events/{eventID}/feedback.
type FeedbackPage struct {
	h.Page[*domain.Feedback]
	AverageRating float64 `json:"average_rating"`
}

// FeedbackSuccessResponse is the success response envelope for POST /api/events/{eventID}/feedback (201).
type FeedbackSuccessResponse struct {
	Data  *domain.Feedback `json:"data"`
	Error *h.APIError      `json:"error"`
}

// FeedbackListSuccessResponse is the success response envelope for GET /api/events/{eventID}/feedback (200).
type FeedbackListSuccessResponse struct {
	Data  *FeedbackPage `json:"data"`
	Error *h.APIError   `json:"error"`
}

type FeedbackController struct {
	Logger  *slog.Logger
	Service domain.FeedbackService
}

func NewFeedbackController(logger *slog.Logger, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitFeedback godoc
// @Summary Rate an event
// @Description Participants only, once per event. Rating from 1 to 5 with an optional comment.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SubmitFeedbackRequest true "Rating and comment"
// @Success 201 {object} controllers.FeedbackSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not a participant)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/feedback [post]
func (c *FeedbackController) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req SubmitFeedbackRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	fb, err := c.Service.Submit(r.Context(), eventID, userID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrNotParticipant):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only participants can leave feedback")
		case errors.Is(err, domain.ErrDuplicateFeedback):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Feedback already submitted for this event")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, fb)
}

// ListFeedback godoc
// @Summary List feedback for an event
// @Description Host only. Paginated, with the average rating over all feedback.
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} controllers.FeedbackListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/feedback [get]
func (c *FeedbackController) ListFeedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	params := h.ParsePagination(r)
	items, total, summary, err := c.Service.List(r.Context(), eventID, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the host can view feedback")
		default:
			writeInternalError(w, r, c.Logger, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, FeedbackPage{
		Page:          h.NewPage(params, total, items),
		AverageRating: summary.AverageRating,
	})
}
