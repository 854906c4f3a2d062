package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		params PaginationParams
		want   int
	}{
		{"first page", PaginationParams{Page: 1, PageSize: 20}, 0},
		{"third page", PaginationParams{Page: 3, PageSize: 10}, 20},
		{"zero page", PaginationParams{Page: 0, PageSize: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Offset())
		})
	}
}

func TestParseInvitationStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   InvitationStatus
		wantOK bool
	}{
		{"ACCEPTED", InvitationAccepted, true},
		{" declined ", InvitationDeclined, true},
		{"pending", InvitationPending, true},
		{"INVALID", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseInvitationStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.True(t, InvitationAccepted.IsResponse())
	assert.False(t, InvitationPending.IsResponse())
}

func TestEventPatch_Apply(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := NewEvent("Old", "desc", "host-1", "Indore", start, start.Add(time.Hour), 50, start, start)

	title := "New Update Event"
	max := 10
	EventPatch{Title: &title, MaxParticipants: &max}.Apply(e)

	assert.Equal(t, "New Update Event", e.Title)
	assert.Equal(t, 10, e.MaxParticipants)
	assert.Equal(t, "Indore", e.Location)
	assert.True(t, e.IsHostedBy("host-1"))
	assert.False(t, e.IsHostedBy("someone-else"))
}

func TestEvent_Validate(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	valid := func() *Event {
		return NewEvent("Go Meetup", "", "host-1", "Indore", start, start.Add(time.Hour), 10, start, start)
	}

	tests := []struct {
		name    string
		mutate  func(e *Event)
		wantErr bool
	}{
		{"valid", func(e *Event) {}, false},
		{"same start and end", func(e *Event) { e.EndTime = e.StartTime }, false},
		{"blank title", func(e *Event) { e.Title = "  " }, true},
		{"long title", func(e *Event) { e.Title = strings.Repeat("a", MaxTitleLength+1) }, true},
		{"long location", func(e *Event) { e.Location = strings.Repeat("a", MaxLocationLength+1) }, true},
		{"end before start", func(e *Event) { e.EndTime = e.StartTime.Add(-time.Minute) }, true},
		{"zero capacity", func(e *Event) { e.MaxParticipants = 0 }, true},
		{"missing start", func(e *Event) { e.StartTime = time.Time{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			err := e.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrUserNotFound_isNotFound(t *testing.T) {
	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
}

func TestPurgeMessage(t *testing.T) {
	assert.Equal(t, "no events found", PurgeMessage(0))
	assert.Equal(t, "deleted 1 event", PurgeMessage(1))
	assert.Equal(t, "deleted 7 events", PurgeMessage(7))
}
