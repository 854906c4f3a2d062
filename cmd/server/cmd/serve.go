package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventmanagement/config"
	_ "eventmanagement/docs"
	"eventmanagement/internal/adapters/auth"
	"eventmanagement/internal/adapters/email"
	delivery "eventmanagement/internal/delivery/http"
	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/repository/postgres"
	"eventmanagement/internal/services"
)

var (
	servePort    string
	serveMigrate bool
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The server loads configuration from the environment (and .env outside production),
connects to Postgres, optionally applies migrations, optionally purges expired
events every PURGE_INTERVAL, and shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default: $PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveMigrate {
		if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewEventParticipantRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)

	authService := services.NewAuthService(userRepo, hasher, tokens, tokens, emailService, logger, cfg.RequestTimeout)
	eventService := newEventService(db, cfg, logger)
	participantService := services.NewParticipantService(participantRepo, eventRepo, cfg.RequestTimeout)
	invitationService := services.NewInvitationService(invitationRepo, eventRepo, userRepo, emailService, logger, cfg.RequestTimeout)
	feedbackService := services.NewFeedbackService(feedbackRepo, eventRepo, participantRepo, cfg.RequestTimeout)

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute)
	defer authLimiter.Stop()

	router := delivery.NewRouter(delivery.Controllers{
		Auth:        controllers.NewAuthController(logger, authService),
		Event:       controllers.NewEventController(logger, eventService),
		Participant: controllers.NewParticipantController(logger, participantService),
		Invitation:  controllers.NewInvitationController(logger, invitationService),
		Feedback:    controllers.NewFeedbackController(logger, feedbackService),
	}, delivery.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:     cfg.AdminToken,
		AuthLimiter:    authLimiter,
	})

	if cfg.PurgeInterval > 0 {
		go runPurgeLoop(ctx, eventService, cfg.PurgeInterval, logger)
		logger.Info("event purge scheduled", "interval", cfg.PurgeInterval.String(), "retention", cfg.EventRetention.String())
	}

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment, "version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
