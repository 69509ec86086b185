// Package metrics records scan instrumentation in a private Prometheus
// registry. The CLI can dump it in the node-exporter textfile format.
package metrics

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nuvai/nuvai/internal/types"
)

// maxLabelLen is the maximum length for a metric label value
const maxLabelLen = 64

func sanitizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	s = strings.ToValidUTF8(strings.ReplaceAll(s, " ", "_"), "?")
	if len(s) > maxLabelLen {
		cut := maxLabelLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// Recorder holds scan metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	scansTotal     *prometheus.CounterVec
	findingsTotal  *prometheus.CounterVec
	scanDuration   *prometheus.HistogramVec
	checkTimeouts  *prometheus.CounterVec
	gateRejections *prometheus.CounterVec
	cacheHits      prometheus.Counter
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nuvai",
				Subsystem: "scan",
				Name:      "total",
				Help:      "Total scans by language and outcome",
			},
			[]string{"language", "outcome"},
		),
		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nuvai",
				Subsystem: "scan",
				Name:      "findings_total",
				Help:      "Total findings by language and severity",
			},
			[]string{"language", "severity"},
		),
		scanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "nuvai",
				Subsystem: "scan",
				Name:      "duration_seconds",
				Help:      "Time spent running a language's checks",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"language"},
		),
		checkTimeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nuvai",
				Subsystem: "check",
				Name:      "timeouts_total",
				Help:      "Checks that exceeded the per-check deadline",
			},
			[]string{"check"},
		),
		gateRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nuvai",
				Subsystem: "gate",
				Name:      "rejections_total",
				Help:      "Inputs rejected by the gate, by category",
			},
			[]string{"category"},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "nuvai",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Files skipped because their content hash was cached",
			},
		),
	}
	r.registry.MustRegister(r.scansTotal, r.findingsTotal, r.scanDuration, r.checkTimeouts, r.gateRejections, r.cacheHits)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveScan records one dispatch.
func (r *Recorder) ObserveScan(language, outcome string, d time.Duration, findings []types.Finding) {
	if r == nil {
		return
	}
	lang := sanitizeLabel(language)
	r.scansTotal.WithLabelValues(lang, sanitizeLabel(outcome)).Inc()
	r.scanDuration.WithLabelValues(lang).Observe(d.Seconds())
	for _, f := range findings {
		r.findingsTotal.WithLabelValues(lang, sanitizeLabel(string(f.Severity))).Inc()
	}
}

// CheckTimedOut counts a check that hit its deadline.
func (r *Recorder) CheckTimedOut(checkID string) {
	if r == nil {
		return
	}
	r.checkTimeouts.WithLabelValues(sanitizeLabel(checkID)).Inc()
}

// GateRejected counts a terminal gate finding.
func (r *Recorder) GateRejected(category string) {
	if r == nil {
		return
	}
	r.gateRejections.WithLabelValues(sanitizeLabel(category)).Inc()
}

// CacheHit counts a file skipped by the content cache.
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheHits.Inc()
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
