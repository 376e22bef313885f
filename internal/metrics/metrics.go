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
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings successfully created.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions on waiting bookings.",
		},
		[]string{"decision"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingDecisions)
	})
}

// IncHTTP increments the request counter for a route/method/status triple.
func IncHTTP(route, method string, status int) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// IncBookingCreated counts a successfully created booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingDecision counts an owner decision ("approved" or "rejected").
func IncBookingDecision(decision string) {
	bookingDecisions.WithLabelValues(decision).Inc()
}
