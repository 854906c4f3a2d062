package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEventService(repo *fakeEventRepo) *eventService {
	svc := NewEventService(repo, fakeCalendar{}, 5, 30*24*time.Hour, discardLogger(), testTimeout).(*eventService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func newEventInput(hostID string) *domain.Event {
	start := testNow.Add(48 * time.Hour)
	return domain.NewEvent("Go Meetup", "desc", hostID, "Indore", start, start.Add(time.Hour), 10, time.Time{}, time.Time{})
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("sets timestamps and id", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo())
		ev := newEventInput("host-1")
		require.NoError(t, svc.CreateEvent(ctx, ev))
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, testNow, ev.CreatedAt)
		assert.Equal(t, testNow, ev.UpdatedAt)
	})

	t.Run("missing host", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo())
		require.Error(t, svc.CreateEvent(ctx, newEventInput("")))
	})

	t.Run("invalid fields", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo())
		ev := newEventInput("host-1")
		ev.EndTime = ev.StartTime.Add(-time.Hour)
		require.ErrorIs(t, svc.CreateEvent(ctx, ev), domain.ErrInvalidInput)
	})

	t.Run("sixth event in 24h exceeds quota", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo())
		for i := 0; i < 5; i++ {
			require.NoError(t, svc.CreateEvent(ctx, newEventInput("host-1")))
		}
		rejected := testutil.ToFloat64(metrics.EventQuotaRejections)
		err := svc.CreateEvent(ctx, newEventInput("host-1"))
		require.ErrorIs(t, err, domain.ErrQuotaExceeded)
		assert.Equal(t, rejected+1, testutil.ToFloat64(metrics.EventQuotaRejections))

		// Other hosts are unaffected.
		require.NoError(t, svc.CreateEvent(ctx, newEventInput("host-2")))
	})

	t.Run("events older than the window do not count", func(t *testing.T) {
		old := testEvent("old", "host-1", testNow.Add(-25*time.Hour))
		repo := newFakeEventRepo(old)
		svc := newTestEventService(repo)
		for i := 0; i < 5; i++ {
			require.NoError(t, svc.CreateEvent(ctx, newEventInput("host-1")))
		}
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	title := "New Update Event"
	zero := 0
	one := 1

	tests := []struct {
		name    string
		caller  string
		patch   domain.EventPatch
		joined  int
		wantErr error
	}{
		{name: "host patches title", caller: "host-1", patch: domain.EventPatch{Title: &title}},
		{name: "non-host forbidden", caller: "intruder", patch: domain.EventPatch{Title: &title}, wantErr: domain.ErrForbidden},
		{name: "invalid capacity", caller: "host-1", patch: domain.EventPatch{MaxParticipants: &zero}, wantErr: domain.ErrInvalidInput},
		{name: "capacity below participants", caller: "host-1", patch: domain.EventPatch{MaxParticipants: &one}, joined: 2, wantErr: domain.ErrCapacityBelowParticipants},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo(testEvent("ev-1", "host-1", testNow))
			repo.participants["ev-1"] = tt.joined
			svc := newTestEventService(repo)

			updated, err := svc.UpdateEvent(ctx, "ev-1", tt.caller, tt.patch)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Go Meetup", repo.byID["ev-1"].Title)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, title, updated.Title)
			assert.Equal(t, "Indore", updated.Location)
		})
	}

	t.Run("missing event", func(t *testing.T) {
		_, err := newTestEventService(newFakeEventRepo()).UpdateEvent(ctx, "nope", "host-1", domain.EventPatch{})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo(testEvent("ev-1", "host-1", testNow))
	svc := newTestEventService(repo)

	require.ErrorIs(t, svc.DeleteEvent(ctx, "ev-1", "intruder"), domain.ErrForbidden)
	require.NoError(t, svc.DeleteEvent(ctx, "ev-1", "host-1"))
	require.ErrorIs(t, svc.DeleteEvent(ctx, "ev-1", "host-1"), domain.ErrNotFound)
}

func TestEventService_ListEvents(t *testing.T) {
	ctx := context.Background()
	a := testEvent("ev-1", "host-1", testNow)
	b := testEvent("ev-2", "host-2", testNow)
	b.Title = "Rust Night"
	b.StartTime = a.StartTime.Add(time.Hour)
	svc := newTestEventService(newFakeEventRepo(a, b))

	events, total, err := svc.ListEvents(ctx, domain.EventFilter{Search: "rust"}, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-2", events[0].ID)

	hosted, err := svc.ListHostedEvents(ctx, "host-1")
	require.NoError(t, err)
	require.Len(t, hosted, 1)
	assert.Equal(t, "ev-1", hosted[0].ID)
}

func TestEventService_ExportCalendar(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(testEvent("ev-1", "host-1", testNow)))

	data, err := svc.ExportCalendar(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Go Meetup")

	_, err = svc.ExportCalendar(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_PurgeExpiredEvents(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo(
		testEvent("old", "host-1", testNow.Add(-31*24*time.Hour)),
		testEvent("recent", "host-1", testNow.Add(-29*24*time.Hour)),
	)
	svc := newTestEventService(repo)

	n, err := svc.PurgeExpiredEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, testNow.Add(-30*24*time.Hour), repo.purgeCutoff)
	assert.Contains(t, repo.byID, "recent")
	assert.NotContains(t, repo.byID, "old")

	n, err = svc.PurgeExpiredEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	repo.err = errors.New("db down")
	_, err = svc.PurgeExpiredEvents(ctx)
	require.Error(t, err)
}

func TestEventService_PurgeExpiredEvents_logsOutcomeOnce(t *testing.T) {
	var logs bytes.Buffer
	repo := newFakeEventRepo(testEvent("old", "host-1", testNow.Add(-31*24*time.Hour)))
	svc := newTestEventService(repo)
	svc.logger = slog.New(slog.NewTextHandler(&logs, nil))

	_, err := svc.PurgeExpiredEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(logs.String(), "deleted 1 event"))

	logs.Reset()
	_, err = svc.PurgeExpiredEvents(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "no events found")
}
