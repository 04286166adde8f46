package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsLogged         = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_jobs_logged_total", Help: "Jobs created through the wizard endpoint"})
	MilestonesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "desk_milestones_recorded_total", Help: "Lifecycle milestones recorded"}, []string{"milestone"})
	TransitionRejects  = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_transition_rejects_total", Help: "Milestone transitions rejected by lifecycle invariants"})
	AlertsRaised       = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_alerts_raised_total", Help: "Alerts appended to job ledgers"})
	AlertsAcknowledged = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_alerts_acknowledged_total", Help: "Alert acknowledgements applied"})
	SLAEvaluations     = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_sla_evaluations_total", Help: "On-demand SLA evaluations served"})
	SLABreachesSeen    = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_sla_breaches_seen_total", Help: "Evaluations that reported at least one breached window"})
	RateLimitRejects   = prometheus.NewCounter(prometheus.CounterOpts{Name: "desk_rate_limit_rejects_total", Help: "Requests rejected by the rate limiter"})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			JobsLogged,
			MilestonesRecorded,
			TransitionRejects,
			AlertsRaised,
			AlertsAcknowledged,
			SLAEvaluations,
			SLABreachesSeen,
			RateLimitRejects,
		)
	})
	return promhttp.Handler()
}
