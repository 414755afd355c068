// Package metrics exposes the contact form lifecycle as prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values of folio_submissions_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the folio collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	Transitions        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmitDuration     prometheus.Histogram
	SocialClicks       *prometheus.CounterVec
}

// New creates the collectors in a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_form_transitions_total",
			Help: "Contact form state transitions.",
		}, []string{"from", "to"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_validation_failures_total",
			Help: "Field validations that failed, by field and trigger.",
		}, []string{"field", "trigger"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_submissions_total",
			Help: "Calls to the submission backend by outcome.",
		}, []string{"outcome"}),
		SubmitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_submission_duration_seconds",
			Help:    "Duration of calls to the submission backend.",
			Buckets: prometheus.DefBuckets,
		}),
		SocialClicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_social_clicks_total",
			Help: "Clicks on outbound social links.",
		}, []string{"platform"}),
	}
	m.registry.MustRegister(
		m.Transitions,
		m.ValidationFailures,
		m.Submissions,
		m.SubmitDuration,
		m.SocialClicks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnValidate: func(_ context.Context, e *domain.ValidationEvent) {
			if !e.Result.Valid {
				m.ValidationFailures.WithLabelValues(string(e.Field), string(e.Trigger)).Inc()
			}
		},
		OnSubmitReturn: func(_ context.Context, e *domain.SubmitEvent) {
			outcome := OutcomeSuccess
			if e.Err != nil {
				outcome = OutcomeFailure
			}
			m.Submissions.WithLabelValues(outcome).Inc()
			m.SubmitDuration.Observe(e.Duration.Seconds())
		},
	}
}

// SocialClick counts a click on a social link.
func (m *Metrics) SocialClick(platform string) {
	m.SocialClicks.WithLabelValues(platform).Inc()
}

// StateSource lists the submission state of every stored session.
type StateSource func(ctx context.Context) (map[string]domain.SubmissionState, error)

// WatchSessions exports folio_sessions, the stored sessions by submission
// state, read from source on every scrape.
func (m *Metrics) WatchSessions(source StateSource) {
	m.registry.MustRegister(&sessionCollector{
		source: source,
		desc: prometheus.NewDesc("folio_sessions",
			"Stored form sessions by submission state.", []string{"state"}, nil),
	})
}

type sessionCollector struct {
	source StateSource
	desc   *prometheus.Desc
}

func (c *sessionCollector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }

func (c *sessionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	states, err := c.source(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	counts := map[domain.SubmissionState]int{
		domain.StateIdle:       0,
		domain.StateSubmitting: 0,
		domain.StateSuccess:    0,
	}
	for _, state := range states {
		counts[state]++
	}
	for state, n := range counts {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), string(state))
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
