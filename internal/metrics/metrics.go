// Package metrics holds the Prometheus collectors for the ingestion queue,
// the pipeline and the summarizer. All methods are safe on a nil *Metrics so
// components can be built without instrumentation in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "openrepowiki"

// Metrics groups every collector exported by the service.
type Metrics struct {
	// Labels: result (accepted, in_queue, in_database, queue_full, not_found, language)
	Admissions *prometheus.CounterVec
	// Labels: status (success, error, panic)
	JobsTotal   *prometheus.CounterVec
	JobDuration prometheus.Histogram
	QueueLength prometheus.Gauge
	JobActive   prometheus.Gauge

	RateLimitWaits       prometheus.Counter
	RateLimitWaitSeconds prometheus.Counter
	RateLimitRemaining   prometheus.Gauge

	// Labels: kind (file, folder), status (ok, error, invalid)
	SummarizeTotal    *prometheus.CounterVec
	SummarizeDuration *prometheus.HistogramVec
	// Labels: kind, reason (fetch, exhausted, no_folder)
	DroppedTotal *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Admissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "admissions_total",
			Help:      "Queue admission decisions by result.",
		}, []string{"result"}),
		JobsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "jobs_total",
			Help:      "Processed ingestion jobs by outcome.",
		}, []string{"status"}),
		JobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Wall time of one repository ingestion.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
		QueueLength: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "pending_jobs",
			Help:      "Jobs waiting in the queue.",
		}),
		JobActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "job_active",
			Help:      "1 while a job is being processed.",
		}),
		RateLimitWaits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "github",
			Name:      "rate_limit_waits_total",
			Help:      "Times the worker paused for the GitHub rate limit.",
		}),
		RateLimitWaitSeconds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "github",
			Name:      "rate_limit_wait_seconds_total",
			Help:      "Total time spent waiting for the GitHub rate limit.",
		}),
		RateLimitRemaining: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "github",
			Name:      "rate_limit_remaining",
			Help:      "Last observed remaining GitHub API calls.",
		}),
		SummarizeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "requests_total",
			Help:      "Summarization requests by kind and status.",
		}, []string{"kind", "status"}),
		SummarizeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "request_duration_seconds",
			Help:      "Latency of summarization requests.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"kind"}),
		DroppedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "dropped_total",
			Help:      "Files and folders left out of a wiki.",
		}, []string{"kind", "reason"}),
	}
}

func (m *Metrics) Admission(result string) {
	if m == nil {
		return
	}
	m.Admissions.WithLabelValues(result).Inc()
}

func (m *Metrics) SetQueueLength(n int) {
	if m == nil {
		return
	}
	m.QueueLength.Set(float64(n))
}

// JobStarted marks the worker busy.
func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.JobActive.Set(1)
}

// JobFinished records the outcome and duration of a job and marks the worker idle.
func (m *Metrics) JobFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.JobActive.Set(0)
	m.JobsTotal.WithLabelValues(status).Inc()
	m.JobDuration.Observe(d.Seconds())
}

func (m *Metrics) RateLimitObserved(remaining int) {
	if m == nil {
		return
	}
	m.RateLimitRemaining.Set(float64(remaining))
}

func (m *Metrics) RateLimitWait(d time.Duration) {
	if m == nil {
		return
	}
	m.RateLimitWaits.Inc()
	m.RateLimitWaitSeconds.Add(d.Seconds())
}

func (m *Metrics) ObserveSummarize(kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.SummarizeTotal.WithLabelValues(kind, status).Inc()
	m.SummarizeDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) Dropped(kind, reason string) {
	if m == nil {
		return
	}
	m.DroppedTotal.WithLabelValues(kind, reason).Inc()
}
