package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusDenied  = "denied"
)

var (
	friendMetricsOnce sync.Once

	friendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Total number of friend request attempts",
		},
		[]string{"status"},
	)

	friendAcceptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_accepts_total",
			Help: "Total number of friend request accept attempts",
		},
		[]string{"status"},
	)

	messageViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_views_total",
			Help: "Total number of attempts to read another user's secret message",
		},
		[]string{"status"},
	)

	messageUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_updates_total",
			Help: "Total number of secret message update attempts",
		},
		[]string{"status"},
	)
)

func RegisterFriendMetrics() {
	friendMetricsOnce.Do(func() {
		prometheus.MustRegister(friendRequestsTotal, friendAcceptsTotal, messageViewsTotal, messageUpdatesTotal)
	})
}

func IncFriendRequest(status string) {
	RegisterFriendMetrics()
	friendRequestsTotal.WithLabelValues(status).Inc()
}

func IncFriendAccept(status string) {
	RegisterFriendMetrics()
	friendAcceptsTotal.WithLabelValues(status).Inc()
}

func IncMessageView(status string) {
	RegisterFriendMetrics()
	messageViewsTotal.WithLabelValues(status).Inc()
}

func IncMessageUpdate(status string) {
	RegisterFriendMetrics()
	messageUpdatesTotal.WithLabelValues(status).Inc()
}
