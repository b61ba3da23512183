package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsReleased counts domain events handed to the bus after a commit.
	EventsReleased = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_events_released_total",
		Help: "Domain events released to the bus after their unit of work committed",
	}, []string{"kind"})

	// EventsDiscarded counts staged events dropped because their unit of work rolled back.
	EventsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinship_events_discarded_total",
		Help: "Staged domain events discarded on rollback",
	})

	// EventPublishErrors counts bus publish failures after commit.
	EventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinship_event_publish_errors_total",
		Help: "Domain events that could not be handed to the bus",
	})

	// NotificationsPersisted counts notifications written by the dispatcher.
	NotificationsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_notifications_persisted_total",
		Help: "Notifications persisted by the dispatcher",
	}, []string{"kind"})

	// NotificationsFailed counts events the dispatcher could not persist.
	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_notifications_failed_total",
		Help: "Events the dispatcher failed to persist",
	}, []string{"kind"})

	// NotificationDispatchLatency records time from event occurrence to persistence.
	NotificationDispatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kinship_notification_dispatch_latency_seconds",
		Help:    "Delay between a domain event and its persisted notification",
		Buckets: prometheus.DefBuckets,
	})

	// RankingDuration records ranking computation time by algorithm.
	RankingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kinship_ranking_duration_seconds",
		Help:    "Ranking computation time",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm"})

	// OTPVerifications counts OTP verification outcomes.
	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_otp_verifications_total",
		Help: "OTP verification attempts by outcome",
	}, []string{"outcome"})

	// WebSocketDrops counts notification frames dropped for a slow or closed listener.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_websocket_drops_total",
		Help: "Notification frames dropped before reaching a websocket listener",
	}, []string{"reason"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kinship_active_websockets",
		Help: "Open notification websocket connections",
	})
)
