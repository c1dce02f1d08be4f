package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Notification dispatch counters. Dispatch is best-effort, so failures and
// drops surface here and in logs rather than in operation results.
var (
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worklane",
		Subsystem: "notifications",
		Name:      "dispatched_total",
		Help:      "Notifications successfully persisted by the dispatcher",
	}, []string{"type"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worklane",
		Subsystem: "notifications",
		Name:      "failed_total",
		Help:      "Notifications the dispatcher could not persist",
	}, []string{"type"})

	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "worklane",
		Subsystem: "notifications",
		Name:      "dropped_total",
		Help:      "Notifications dropped because the dispatch queue was full",
	})
)
