package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	if err := metrics.Track("listings:purge").End(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := metrics.Track("listings:purge").End(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error to be returned untouched, got %v", err)
	}

	if got := counterValue(t, reg, "tourhub_jobs_total", map[string]string{"job": "listings:purge", "status": "success"}); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := counterValue(t, reg, "tourhub_jobs_failures_total", map[string]string{"job": "listings:purge"}); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestAddPurged(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.AddPurged("destination", 3)
	metrics.AddPurged("destination", 0)
	metrics.AddPurged("destination", 2)

	if got := counterValue(t, reg, "tourhub_purged_entities_total", map[string]string{"entity": "destination"}); got != 5 {
		t.Fatalf("expected 5 purged, got %v", got)
	}

	var nilMetrics *Metrics
	nilMetrics.AddPurged("post", 1)
	if err := nilMetrics.Track("noop").End(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
