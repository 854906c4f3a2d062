package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackController_SubmitFeedback(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		fakeErr     error
		wantStatus  int
		wantMessage string
	}{
		{name: "success", body: `{"rating":5,"comment":"great"}`, wantStatus: http.StatusCreated},
		{name: "rating too high", body: `{"rating":6}`, wantStatus: http.StatusBadRequest, wantMessage: "rating must be at most 5"},
		{name: "rating missing", body: `{"comment":"meh"}`, wantStatus: http.StatusBadRequest, wantMessage: "rating is required"},
		{name: "event missing", body: `{"rating":4}`, fakeErr: fmt.Errorf("get event: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "not participant", body: `{"rating":4}`, fakeErr: domain.ErrNotParticipant, wantStatus: http.StatusForbidden},
		{name: "duplicate", body: `{"rating":4}`, fakeErr: fmt.Errorf("create feedback: %w", domain.ErrDuplicateFeedback), wantStatus: http.StatusBadRequest, wantMessage: "Feedback already submitted for this event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFeedbackService{submitErr: tt.fakeErr}
			ctrl := NewFeedbackController(testLogger, fake)
			rr, envelope := serve(t, ctrl.SubmitFeedback, request{method: http.MethodPost, target: "/api/events/" + testEventID + "/feedback", body: tt.body, pathValues: eventPath(), userID: testOtherID})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMessage != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantMessage, envelope.Error.Message)
			}
			if tt.wantStatus == http.StatusCreated {
				var fb domain.Feedback
				decodeData(t, envelope, &fb)
				assert.Equal(t, 5, fb.Rating)
				require.NotNil(t, fake.lastComment)
				assert.Equal(t, "great", *fake.lastComment)
			}
		})
	}
}

func TestFeedbackController_ListFeedback(t *testing.T) {
	t.Run("host sees page with average", func(t *testing.T) {
		items := []*domain.Feedback{domain.NewFeedback(testEventID, testOtherID, 4, nil, testEvent().EndTime)}
		fake := &fakeFeedbackService{items: items, total: 11, summary: domain.FeedbackSummary{Count: 11, AverageRating: 4.5}}
		ctrl := NewFeedbackController(testLogger, fake)
		rr, envelope := serve(t, ctrl.ListFeedback, request{method: http.MethodGet, target: "/api/events/" + testEventID + "/feedback?page=2&page_size=10", pathValues: eventPath(), userID: testUserID})

		require.Equal(t, http.StatusOK, rr.Code)
		var data struct {
			Count         int               `json:"count"`
			Page          int               `json:"page"`
			PageSize      int               `json:"page_size"`
			TotalPages    int               `json:"total_pages"`
			Results       []domain.Feedback `json:"results"`
			AverageRating float64           `json:"average_rating"`
		}
		decodeData(t, envelope, &data)
		assert.Equal(t, 11, data.Count)
		assert.Equal(t, 2, data.Page)
		assert.Equal(t, 2, data.TotalPages)
		assert.Len(t, data.Results, 1)
		assert.InDelta(t, 4.5, data.AverageRating, 0.001)
	})
	t.Run("not host", func(t *testing.T) {
		ctrl := NewFeedbackController(testLogger, &fakeFeedbackService{listErr: domain.ErrForbidden})
		rr, _ := serve(t, ctrl.ListFeedback, request{method: http.MethodGet, target: "/api/events/" + testEventID + "/feedback", pathValues: eventPath(), userID: testOtherID})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
