package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

// Controllers groups the HTTP handlers mounted by NewRouter.
type Controllers struct {
	Auth        *controllers.AuthController
	Event       *controllers.EventController
	Participant *controllers.ParticipantController
	Invitation  *controllers.InvitationController
	Feedback    *controllers.FeedbackController
}

// RouterConfig carries the cross-cutting dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
	AdminToken     string
	// AuthLimiter throttles login and registration. Nil disables throttling.
	AuthLimiter *middleware.RateLimiter
}

// NewRouter initializes the HTTP router with all application routes
// and wraps it in the request id, logging, CORS and metrics middleware.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	admin := middleware.RequireAdminToken(cfg.AdminToken)
	limit := func(next http.HandlerFunc) http.HandlerFunc {
		if cfg.AuthLimiter == nil {
			return next
		}
		return cfg.AuthLimiter.Limit(next)
	}

	// Auth
	mux.HandleFunc("POST /api/register", limit(c.Auth.Register))
	mux.HandleFunc("POST /api/login", limit(c.Auth.Login))
	mux.HandleFunc("POST /api/token/refresh", c.Auth.Refresh)
	mux.HandleFunc("GET /api/users/me", auth(c.Auth.Me))

	// Events
	mux.HandleFunc("GET /api/events", auth(c.Event.ListEvents))
	mux.HandleFunc("GET /api/events/list", auth(c.Event.ListEvents))
	mux.HandleFunc("POST /api/events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /api/events/hosted", auth(c.Event.ListHostedEvents))
	mux.HandleFunc("GET /api/events/{eventID}", auth(c.Event.GetEvent))
	mux.HandleFunc("PUT /api/events/{eventID}", auth(c.Event.ReplaceEvent))
	mux.HandleFunc("PATCH /api/events/{eventID}", auth(c.Event.PatchEvent))
	mux.HandleFunc("DELETE /api/events/{eventID}", auth(c.Event.DeleteEvent))
	mux.HandleFunc("GET /api/events/{eventID}/calendar.ics", auth(c.Event.ExportCalendar))

	// Participants
	mux.HandleFunc("POST /api/events/{eventID}/register", auth(c.Participant.Register))
	mux.HandleFunc("DELETE /api/events/{eventID}/register", auth(c.Participant.Unregister))
	mux.HandleFunc("GET /api/events/{eventID}/participants", auth(c.Participant.ListParticipants))
	mux.HandleFunc("GET /api/participants/me", auth(c.Participant.ListMyParticipations))

	// Invitations
	mux.HandleFunc("POST /api/events/{eventID}/invitations", auth(c.Invitation.SendInvitation))
	mux.HandleFunc("GET /api/events/{eventID}/invitations", auth(c.Invitation.ListEventInvitations))
	mux.HandleFunc("PATCH /api/events/{eventID}/invitation", auth(c.Invitation.RespondInvitation))
	mux.HandleFunc("GET /api/invitations", auth(c.Invitation.ListReceivedInvitations))

	// Feedback
	mux.HandleFunc("POST /api/events/{eventID}/feedback", auth(c.Feedback.SubmitFeedback))
	mux.HandleFunc("GET /api/events/{eventID}/feedback", auth(c.Feedback.ListFeedback))

	// Admin
	mux.HandleFunc("POST /api/admin/events/purge", admin(c.Event.PurgeEvents))

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// The metrics middleware must wrap the mux directly so it sees r.Pattern.
	var handler http.Handler = metrics.HTTPMiddleware(mux)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return middleware.RequestID(handler)
}
