package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsAndServes(t *testing.T) {
	r := New()
	r.PuzzleLoads.WithLabelValues("fallback").Inc()
	r.Selections.WithLabelValues("matched").Add(2)

	if got := testutil.ToFloat64(r.Selections.WithLabelValues("matched")); got != 2 {
		t.Errorf("matched selections %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `wordsearch_puzzle_loads_total{origin="fallback"} 1`) {
		t.Errorf("metrics output missing puzzle load counter:\n%s", body)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Unplaced.Inc()
	if testutil.ToFloat64(b.Unplaced) != 0 {
		t.Error("recorders should not share collectors")
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	r.PuzzleLoaded("source")
	r.WordsUnplaced(3)
	r.SelectionEvaluated("matched")
	r.StreamOpened()()
}

func TestRecorder_Helpers(t *testing.T) {
	r := New()
	r.WordsUnplaced(2)
	r.WordsUnplaced(0)
	done := r.StreamOpened()
	if got := testutil.ToFloat64(r.ActiveStreams); got != 1 {
		t.Errorf("active streams %v, want 1", got)
	}
	done()
	if got := testutil.ToFloat64(r.ActiveStreams); got != 0 {
		t.Errorf("active streams %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.Unplaced); got != 2 {
		t.Errorf("unplaced %v, want 2", got)
	}
}
