// Package metrics exposes Prometheus counters for puzzle loading, board
// generation and player selections.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the service's collectors on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	PuzzleLoads   *prometheus.CounterVec
	Unplaced      prometheus.Counter
	Selections    *prometheus.CounterVec
	ActiveStreams prometheus.Gauge
}

// New creates a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		PuzzleLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordsearch",
			Name:      "puzzle_loads_total",
			Help:      "Puzzle loads by origin (source or fallback).",
		}, []string{"origin"}),
		Unplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordsearch",
			Name:      "unplaced_words_total",
			Help:      "Words that exhausted the placement retry budget.",
		}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordsearch",
			Name:      "selections_total",
			Help:      "Completed two-tap selections by outcome.",
		}, []string{"outcome"}),
		ActiveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wordsearch",
			Name:      "active_streams",
			Help:      "Open SSE connections.",
		}),
	}
	r.registry.MustRegister(r.PuzzleLoads, r.Unplaced, r.Selections, r.ActiveStreams)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// PuzzleLoaded counts one puzzle load. Methods on a nil Recorder are no-ops.
func (r *Recorder) PuzzleLoaded(origin string) {
	if r == nil {
		return
	}
	r.PuzzleLoads.WithLabelValues(origin).Inc()
}

// WordsUnplaced counts words left out of a generated grid.
func (r *Recorder) WordsUnplaced(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.Unplaced.Add(float64(n))
}

// SelectionEvaluated counts one completed selection.
func (r *Recorder) SelectionEvaluated(outcome string) {
	if r == nil {
		return
	}
	r.Selections.WithLabelValues(outcome).Inc()
}

// StreamOpened tracks an SSE connection; call the returned func on close.
func (r *Recorder) StreamOpened() func() {
	if r == nil {
		return func() {}
	}
	r.ActiveStreams.Inc()
	return r.ActiveStreams.Dec
}
