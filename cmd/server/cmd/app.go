package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"eventmanagement/config"
	"eventmanagement/internal/adapters/calendar"
	"eventmanagement/internal/domain"
	"eventmanagement/internal/repository/postgres"
	"eventmanagement/internal/services"
)

const calendarUIDDomain = "eventmanagement"

// openDB opens the Postgres pool and verifies the connection.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func newEventService(db *sql.DB, cfg *config.Config, logger *slog.Logger) domain.EventService {
	return services.NewEventService(
		postgres.NewEventRepository(db),
		calendar.NewEncoder(calendarUIDDomain),
		cfg.EventDailyLimit,
		cfg.EventRetention,
		logger,
		cfg.RequestTimeout,
	)
}

// purgeOnce runs one purge. The service logs the outcome; only failures are logged here.
func purgeOnce(ctx context.Context, svc domain.EventService, logger *slog.Logger) (int64, error) {
	deleted, err := svc.PurgeExpiredEvents(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "purge failed", "err", err)
		return 0, err
	}
	return deleted, nil
}

// runPurgeLoop purges expired events every interval until ctx is done.
func runPurgeLoop(ctx context.Context, svc domain.EventService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = purgeOnce(ctx, svc, logger)
		}
	}
}
