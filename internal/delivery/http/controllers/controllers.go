package controllers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	h "eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
)

// pathUUID reads a UUID path value. It writes a 400 and returns false when the value is missing or malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// currentUser returns the authenticated user id or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

func writeInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"err", err,
	)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
}
