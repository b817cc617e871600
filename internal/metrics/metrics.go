package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by tier, endpoint and status code.",
		},
		[]string{"tier", "endpoint", "code"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted in WAITING status.",
		},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "notifications_sent_total",
			Help:      "Operator notifications by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, notificationsSent)
	})
}

func IncHTTP(tier, endpoint string, code int) {
	httpRequests.WithLabelValues(tier, endpoint, strconv.Itoa(code)).Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncNotification(outcome string) {
	notificationsSent.WithLabelValues(outcome).Inc()
}
