package middleware

import (
	"crypto/subtle"
	"net/http"

	h "eventmanagement/internal/delivery/http/helpers"
)

// AdminTokenHeader is the header checked by RequireAdminToken.
const AdminTokenHeader = "X-Admin-Token"

// RequireAdminToken guards maintenance endpoints with a shared secret.
// An empty token disables the endpoint entirely (404).
func RequireAdminToken(token string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
				return
			}
			got := r.Header.Get(AdminTokenHeader)
			if got == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing admin token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "invalid admin token")
				return
			}
			next(w, r)
		}
	}
}
