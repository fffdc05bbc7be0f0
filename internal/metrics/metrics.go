package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subbot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BotUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_bot_updates_total",
			Help: "Total number of Telegram updates handled",
		},
		[]string{"type"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"period"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_notifications_total",
			Help: "Total number of notifications by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subbot_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	SchedulerTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_scheduler_ticks_total",
			Help: "Total number of scheduler ticks by outcome",
		},
		[]string{"result"},
	)

	SchedulerTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "subbot_scheduler_tick_duration_seconds",
			Help:    "Scheduler tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PaymentsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subbot_payments_recorded_total",
			Help: "Total number of payment history rows written",
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_cache_requests_total",
			Help: "Subscription cache lookups by result",
		},
		[]string{"result"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subbot_events_published_total",
			Help: "Subscription lifecycle events by kind and outcome",
		},
		[]string{"kind", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBotUpdate(updateType string) {
	BotUpdatesTotal.WithLabelValues(updateType).Inc()
}

func RecordSubscription(period string) {
	SubscriptionsCreatedTotal.WithLabelValues(period).Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

func RecordSchedulerTick(result string, seconds float64) {
	SchedulerTicksTotal.WithLabelValues(result).Inc()
	SchedulerTickDuration.Observe(seconds)
}

func RecordPayments(n int) {
	PaymentsRecordedTotal.Add(float64(n))
}

func RecordCache(result string) {
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

func RecordEvent(kind, status string) {
	EventsPublishedTotal.WithLabelValues(kind, status).Inc()
}
