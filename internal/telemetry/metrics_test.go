package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg, func() int { return 3 }, func() int { return 7 })

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration is nil")
	}
	if m.ActiveRequests == nil {
		t.Error("ActiveRequests is nil")
	}
	if m.UpstreamDuration == nil {
		t.Error("UpstreamDuration is nil")
	}
	if m.UpstreamErrors == nil {
		t.Error("UpstreamErrors is nil")
	}
	if m.SessionsActive == nil {
		t.Error("SessionsActive is nil")
	}
	if m.LoginsTotal == nil {
		t.Error("LoginsTotal is nil")
	}
	if m.AggregateFanouts == nil {
		t.Error("AggregateFanouts is nil")
	}
	if m.ActivityQueueLength == nil {
		t.Error("ActivityQueueLength is nil")
	}

	// Verify metrics can be gathered without error.
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected at least one metric family")
	}
}

func TestNewMetricsIncrement(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg, nil, nil)

	// Increment counters and observe histograms to verify they work.
	m.RequestsTotal.WithLabelValues("GET", "/api/my-page", "200").Inc()
	m.UpstreamErrors.WithLabelValues("unavailable").Inc()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.ActiveRequests.Set(5)
	m.RequestDuration.WithLabelValues("GET", "/api/my-page").Observe(0.123)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather after increment: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	want := []string{
		"foyer_requests_total",
		"foyer_upstream_errors_total",
		"foyer_logins_total",
		"foyer_active_requests",
		"foyer_request_duration_seconds",
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("missing metric %q in gathered families", name)
		}
	}
}

func TestGaugeFuncsTrackSuppliers(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	n := 0
	NewMetrics(reg, func() int { return n }, nil)

	n = 42
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "foyer_sessions_active" {
			continue
		}
		if got := f.GetMetric()[0].GetGauge().GetValue(); got != 42 {
			t.Errorf("sessions_active = %v, want 42", got)
		}
		return
	}
	t.Fatal("foyer_sessions_active not gathered")
}

// SetupTracing is not unit-tested because it requires a gRPC connection
// to an OTLP collector, which is integration-test territory.
