package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the report workflow, its ledger and the HTTP surface.
type Metrics struct {
	ReportsCreated      *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	RejectedTransitions *prometheus.CounterVec
	LedgerEntries       *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
	EventsConsumed      *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusreports_reports_created_total",
			Help: "Total number of reports created, by priority",
		}, []string{"priority"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusreports_status_transitions_total",
			Help: "Accepted report status transitions",
		}, []string{"from", "to"}),
		RejectedTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusreports_status_transitions_rejected_total",
			Help: "Status transitions refused by the workflow policy",
		}, []string{"from", "to"}),
		LedgerEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusreports_ledger_entries_total",
			Help: "Ledger entries appended, by kind (genesis, transition, note)",
		}, []string{"kind"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusreports_events_published_total",
			Help: "Domain events handed to the broker, by routing key and result",
		}, []string{"routing_key", "result"}),
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campusreports_events_consumed_total",
			Help: "Domain events read back by the event worker",
		}, []string{"routing_key"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campusreports_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// The helpers below are nil-safe so services can run without metrics.

func (m *Metrics) IncReportCreated(priority string) {
	if m == nil {
		return
	}
	m.ReportsCreated.WithLabelValues(priority).Inc()
}

func (m *Metrics) IncTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncRejectedTransition(from, to string) {
	if m == nil {
		return
	}
	m.RejectedTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncLedgerEntry(kind string) {
	if m == nil {
		return
	}
	m.LedgerEntries.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncEventPublished(routingKey string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(routingKey, result).Inc()
}

func (m *Metrics) IncEventConsumed(routingKey string) {
	if m == nil {
		return
	}
	m.EventsConsumed.WithLabelValues(routingKey).Inc()
}

// ObserveRequest records the duration of an HTTP request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
