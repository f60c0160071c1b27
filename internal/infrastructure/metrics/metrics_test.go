package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistererRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.TripsCreated == nil || m.HTTPRequests == nil || m.IntegrityWarnings == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.TripsCreated.Inc()
	m.IntegrityWarnings.WithLabelValues("unknown_payer").Add(2)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.TripsCreated); got != 1 {
		t.Fatalf("expected 1 trip created, got %v", got)
	}
	if got := testutil.ToFloat64(m.IntegrityWarnings.WithLabelValues("unknown_payer")); got != 2 {
		t.Fatalf("expected 2 warnings, got %v", got)
	}
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	NewWithRegisterer(prometheus.NewRegistry())
	NewWithRegisterer(prometheus.NewRegistry())
}
