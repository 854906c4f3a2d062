package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testUserID  = "7d0c7f4e-2d1b-4c55-9a3e-1f2b3c4d5e6f"
	testEventID = "0b8f5d2a-9c7e-4f61-8a3b-5c6d7e8f9a0b"
	testOtherID = "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d"
)

type request struct {
	method     string
	target     string
	body       string
	pathValues map[string]string
	userID     string
}

// serve runs handler against the request and decodes the JSON envelope when the body is not empty.
func serve(t *testing.T, handler http.HandlerFunc, req request) (*httptest.ResponseRecorder, helpers.APIResponse) {
	t.Helper()
	var body io.Reader
	if req.body != "" {
		body = bytes.NewBufferString(req.body)
	}
	r := httptest.NewRequest(req.method, req.target, body)
	r.Header.Set("Content-Type", "application/json")
	for k, v := range req.pathValues {
		r.SetPathValue(k, v)
	}
	if req.userID != "" {
		r = r.WithContext(middleware.SetUserID(r.Context(), req.userID))
	}
	rr := httptest.NewRecorder()
	handler(rr, r)

	var envelope helpers.APIResponse
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), "response must be valid JSON envelope")
	}
	return rr, envelope
}

// decodeData re-marshals envelope.Data into dest.
func decodeData(t *testing.T, envelope helpers.APIResponse, dest any) {
	t.Helper()
	require.Nil(t, envelope.Error, "success response must have error nil")
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func testEvent() *domain.Event {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:              testEventID,
		Title:           "Go meetup",
		HostID:          testUserID,
		Host:            domain.UserSummary{ID: testUserID, Username: "alice"},
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		Location:        "Berlin",
		MaxParticipants: 10,
	}
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	registerErr  error
	loginPair    *domain.TokenPair
	loginErr     error
	refreshToken string
	refreshErr   error
	user         *domain.User
	getErr       error

	lastUsername string
	lastPassword string
	lastEmail    string
}

func (f *fakeAuthService) Register(_ context.Context, username, password, email string) (*domain.User, error) {
	f.lastUsername, f.lastPassword, f.lastEmail = username, password, email
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: testUserID, Username: username, Email: email}, nil
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (*domain.TokenPair, error) {
	f.lastUsername, f.lastPassword = username, password
	return f.loginPair, f.loginErr
}

func (f *fakeAuthService) Refresh(_ context.Context, _ string) (string, error) {
	return f.refreshToken, f.refreshErr
}

func (f *fakeAuthService) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return f.user, f.getErr
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr error
	event     *domain.Event
	getErr    error
	events    []*domain.Event
	total     int
	listErr   error
	updateErr error
	deleteErr error
	calendar  []byte
	calErr    error
	purged    int64
	purgeErr  error

	lastCreated *domain.Event
	lastFilter  domain.EventFilter
	lastParams  domain.PaginationParams
	lastPatch   domain.EventPatch
	lastCaller  string
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreated = event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = testEventID
	return nil
}

func (f *fakeEventService) GetEvent(_ context.Context, _ string) (*domain.Event, error) {
	return f.event, f.getErr
}

func (f *fakeEventService) ListEvents(_ context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilter, f.lastParams = filter, params
	return f.events, f.total, f.listErr
}

func (f *fakeEventService) ListHostedEvents(_ context.Context, hostID string) ([]*domain.Event, error) {
	f.lastCaller = hostID
	return f.events, f.listErr
}

func (f *fakeEventService) UpdateEvent(_ context.Context, _ string, callerID string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastCaller, f.lastPatch = callerID, patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	e := testEvent()
	patch.Apply(e)
	return e, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, _ string, callerID string) error {
	f.lastCaller = callerID
	return f.deleteErr
}

func (f *fakeEventService) ExportCalendar(_ context.Context, _ string) ([]byte, error) {
	return f.calendar, f.calErr
}

func (f *fakeEventService) PurgeExpiredEvents(_ context.Context) (int64, error) {
	return f.purged, f.purgeErr
}

// fakeParticipantService implements domain.ParticipantService for handler tests.
type fakeParticipantService struct {
	registerErr    error
	unregisterErr  error
	participants   []*domain.EventParticipant
	listErr        error
	participations []*domain.ParticipationWithEvent
}

func (f *fakeParticipantService) Register(_ context.Context, eventID, userID string) (*domain.EventParticipant, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	p := domain.NewEventParticipant(eventID, userID, time.Now())
	p.ID = testOtherID
	return p, nil
}

func (f *fakeParticipantService) Unregister(_ context.Context, _, _ string) error {
	return f.unregisterErr
}

func (f *fakeParticipantService) ListParticipants(_ context.Context, _, _ string) ([]*domain.EventParticipant, error) {
	return f.participants, f.listErr
}

func (f *fakeParticipantService) ListMyParticipations(_ context.Context, _ string) ([]*domain.ParticipationWithEvent, error) {
	return f.participations, f.listErr
}

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	sendErr     error
	respondErr  error
	invitations []*domain.Invitation
	listErr     error

	lastInvitee string
	lastStatus  domain.InvitationStatus
}

func (f *fakeInvitationService) Send(_ context.Context, eventID, hostID, inviteeID string) (*domain.Invitation, error) {
	f.lastInvitee = inviteeID
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return domain.NewInvitation(eventID, hostID, inviteeID, time.Now()), nil
}

func (f *fakeInvitationService) Respond(_ context.Context, eventID, inviteeID string, status domain.InvitationStatus) (*domain.Invitation, error) {
	f.lastStatus = status
	if f.respondErr != nil {
		return nil, f.respondErr
	}
	inv := domain.NewInvitation(eventID, testOtherID, inviteeID, time.Now())
	inv.Status = status
	return inv, nil
}

func (f *fakeInvitationService) ListForEvent(_ context.Context, _, _ string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	f.lastStatus = status
	return f.invitations, f.listErr
}

func (f *fakeInvitationService) ListReceived(_ context.Context, _ string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	f.lastStatus = status
	return f.invitations, f.listErr
}

// fakeFeedbackService implements domain.FeedbackService for handler tests.
type fakeFeedbackService struct {
	submitErr error
	items     []*domain.Feedback
	total     int
	summary   domain.FeedbackSummary
	listErr   error

	lastRating  int
	lastComment *string
}

func (f *fakeFeedbackService) Submit(_ context.Context, eventID, userID string, rating int, comment *string) (*domain.Feedback, error) {
	f.lastRating, f.lastComment = rating, comment
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return domain.NewFeedback(eventID, userID, rating, comment, time.Now()), nil
}

func (f *fakeFeedbackService) List(_ context.Context, _, _ string, _ domain.PaginationParams) ([]*domain.Feedback, int, domain.FeedbackSummary, error) {
	return f.items, f.total, f.summary, f.listErr
}
