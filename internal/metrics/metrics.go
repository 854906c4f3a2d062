package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventmanagement"

// Registry is the Prometheus registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Domain metrics
var (
	// EventsCreated counts events created successfully.
	EventsCreated = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_created_total",
			Help:      "Total number of events created",
		},
	)

	// EventQuotaRejections counts creations refused by the daily host limit.
	EventQuotaRejections = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_quota_rejections_total",
			Help:      "Total number of event creations rejected by the daily limit",
		},
	)

	// EventsPurged counts events removed by the retention purge.
	EventsPurged = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_purged_total",
			Help:      "Total number of events deleted by the retention purge",
		},
	)

	// ParticipantRegistrations counts registration attempts by outcome.
	ParticipantRegistrations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participant_registrations_total",
			Help:      "Participant registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	// InvitationsSent counts invitations created.
	InvitationsSent = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_sent_total",
			Help:      "Total number of invitations sent",
		},
	)

	// InvitationResponses counts invitee answers by status.
	InvitationResponses = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_responses_total",
			Help:      "Invitation responses by status",
		},
		[]string{"status"},
	)

	// FeedbackSubmitted counts feedback entries by rating.
	FeedbackSubmitted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_submitted_total",
			Help:      "Feedback entries by rating",
		},
		[]string{"rating"},
	)

	// EmailsFailed counts best-effort emails that could not be delivered.
	EmailsFailed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_failed_total",
			Help:      "Best-effort emails that failed to send, by template",
		},
		[]string{"template"},
	)
)
