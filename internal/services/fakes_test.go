package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"eventmanagement/internal/domain"
)

const testTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
	err    error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	return err == nil, nil
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID         map[string]*domain.Event
	nextID       int
	participants map[string]int
	purgeCutoff  time.Time
	err          error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1, participants: make(map[string]int)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) CreateWithQuota(ctx context.Context, e *domain.Event, limit int, since time.Time) error {
	if f.err != nil {
		return f.err
	}
	created := 0
	for _, existing := range f.byID {
		if existing.HostID == e.HostID && !existing.CreatedAt.Before(since) {
			created++
		}
	}
	if created >= limit {
		return domain.ErrQuotaExceeded
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		q := strings.ToLower(filter.Search)
		if q == "" || strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Location), q) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	total := len(out)
	if limit := params.Limit(); limit > 0 {
		start := min(params.Offset(), total)
		end := min(start+limit, total)
		out = out[start:end]
	}
	return out, total, nil
}

func (f *fakeEventRepo) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.HostID == hostID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if _, ok := f.byID[e.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	if e.MaxParticipants < f.participants[e.ID] {
		return nil, domain.ErrCapacityBelowParticipants
	}
	cp := *e
	f.byID[e.ID] = &cp
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.purgeCutoff = cutoff
	var n int64
	for id, e := range f.byID {
		if e.CreatedAt.Before(cutoff) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

// fakeParticipantRepo is an in-memory EventParticipantRepository backed by a fakeEventRepo.
type fakeParticipantRepo struct {
	events *fakeEventRepo
	items  []*domain.EventParticipant
	nextID int
}

func newFakeParticipantRepo(events *fakeEventRepo) *fakeParticipantRepo {
	return &fakeParticipantRepo{events: events, nextID: 1}
}

func (f *fakeParticipantRepo) Register(ctx context.Context, p *domain.EventParticipant) error {
	e, ok := f.events.byID[p.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	count := 0
	for _, existing := range f.items {
		if existing.EventID == p.EventID {
			if existing.UserID == p.UserID {
				return domain.ErrAlreadyRegistered
			}
			count++
		}
	}
	if count >= e.MaxParticipants {
		return domain.ErrEventFull
	}
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	f.nextID++
	f.items = append(f.items, p)
	f.events.participants[p.EventID]++
	return nil
}

func (f *fakeParticipantRepo) Unregister(ctx context.Context, eventID, userID string) error {
	for i, p := range f.items {
		if p.EventID == eventID && p.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.events.participants[eventID]--
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeParticipantRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventParticipant, error) {
	for _, p := range f.items {
		if p.EventID == eventID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventParticipant, error) {
	out := make([]*domain.EventParticipant, 0)
	for _, p := range f.items {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) ListByUserIDWithEvents(ctx context.Context, userID string) ([]*domain.ParticipationWithEvent, error) {
	out := make([]*domain.ParticipationWithEvent, 0)
	for _, p := range f.items {
		e, ok := f.events.byID[p.EventID]
		if p.UserID != userID || !ok {
			continue
		}
		out = append(out, &domain.ParticipationWithEvent{Participation: p, Event: e})
	}
	return out, nil
}

func (f *fakeParticipantRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	list, _ := f.ListByEventID(ctx, eventID)
	return len(list), nil
}

// fakeInvitationRepo is an in-memory InvitationRepository for tests.
type fakeInvitationRepo struct {
	items  []*domain.Invitation
	nextID int
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	for _, existing := range f.items {
		if existing.EventID == inv.EventID && existing.InviteeID == inv.InviteeID {
			return domain.ErrAlreadyInvited
		}
	}
	f.nextID++
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.items = append(f.items, inv)
	return nil
}

func (f *fakeInvitationRepo) GetByEventAndInvitee(ctx context.Context, eventID, inviteeID string) (*domain.Invitation, error) {
	for _, inv := range f.items {
		if inv.EventID == eventID && inv.InviteeID == inviteeID {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) Respond(ctx context.Context, id string, status domain.InvitationStatus, respondedAt time.Time) (*domain.Invitation, error) {
	for _, inv := range f.items {
		if inv.ID != id {
			continue
		}
		if inv.Status != domain.InvitationPending {
			return nil, domain.ErrAlreadyResponded
		}
		inv.Status = status
		inv.RespondedAt = &respondedAt
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	return f.filter(func(inv *domain.Invitation) bool { return inv.EventID == eventID }, status), nil
}

func (f *fakeInvitationRepo) ListByInviteeID(ctx context.Context, inviteeID string, status domain.InvitationStatus) ([]*domain.Invitation, error) {
	return f.filter(func(inv *domain.Invitation) bool { return inv.InviteeID == inviteeID }, status), nil
}

func (f *fakeInvitationRepo) filter(match func(*domain.Invitation) bool, status domain.InvitationStatus) []*domain.Invitation {
	out := make([]*domain.Invitation, 0)
	for _, inv := range f.items {
		if match(inv) && (status == "" || inv.Status == status) {
			out = append(out, inv)
		}
	}
	return out
}

// fakeFeedbackRepo is an in-memory FeedbackRepository for tests.
type fakeFeedbackRepo struct {
	items []*domain.Feedback
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	for _, existing := range f.items {
		if existing.EventID == fb.EventID && existing.UserID == fb.UserID {
			return domain.ErrDuplicateFeedback
		}
	}
	fb.ID = fmt.Sprintf("fb-%d", len(f.items)+1)
	f.items = append(f.items, fb)
	return nil
}

func (f *fakeFeedbackRepo) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Feedback, int, error) {
	out := make([]*domain.Feedback, 0)
	for _, fb := range f.items {
		if fb.EventID == eventID {
			out = append(out, fb)
		}
	}
	return out, len(out), nil
}

func (f *fakeFeedbackRepo) SummaryByEventID(ctx context.Context, eventID string) (domain.FeedbackSummary, error) {
	var s domain.FeedbackSummary
	sum := 0
	for _, fb := range f.items {
		if fb.EventID == eventID {
			s.Count++
			sum += fb.Rating
		}
	}
	if s.Count > 0 {
		s.AverageRating = float64(sum) / float64(s.Count)
	}
	return s, nil
}

// fakeHasher stores "salt:password" as the hash.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) { return salt + ":" + password, nil }

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokens issues tokens of the form "<kind>:<userID>".
type fakeTokens struct{}

func (fakeTokens) IssueAccess(userID, username string) (string, error) {
	return "access:" + userID, nil
}

func (fakeTokens) IssueRefresh(userID, username string) (string, error) {
	return "refresh:" + userID, nil
}

func (fakeTokens) Verify(token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "access:"); ok {
		return id, nil
	}
	return "", domain.ErrInvalidToken
}

func (fakeTokens) VerifyRefresh(token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "refresh:"); ok {
		return id, nil
	}
	return "", domain.ErrInvalidToken
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	welcome     []*domain.WelcomeMessageEmailData
	invitations []*domain.InvitationEmailData
	err         error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	f.invitations = append(f.invitations, data)
	return f.err
}

// fakeCalendar renders the event titles.
type fakeCalendar struct{}

func (fakeCalendar) Encode(events ...*domain.Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, errors.New("no events")
	}
	titles := make([]string, len(events))
	for i, e := range events {
		titles[i] = e.Title
	}
	return []byte("BEGIN:VCALENDAR " + strings.Join(titles, ",")), nil
}

func testEvent(id, hostID string, createdAt time.Time) *domain.Event {
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	e := domain.NewEvent("Go Meetup", "desc", hostID, "Indore", start, start.Add(2*time.Hour), 2, createdAt, createdAt)
	e.ID = id
	e.Host = domain.UserSummary{ID: hostID, Username: "alice", Email: "alice@example.com"}
	return e
}
