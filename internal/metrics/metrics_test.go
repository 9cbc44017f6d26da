package metrics

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNormalizeOutcome(t *testing.T) {
	tests := []struct {
		outcome string
		want    string
	}{
		// Known outcomes pass through.
		{"ok", "ok"},
		{"invalid_input", "invalid_input"},
		{"divergence", "divergence"},

		// Anything else collapses to "other".
		{"", "other"},
		{"OK", "other"},
		{"timeout", "other"},
		{"divergence: step underflow", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			got := normalizeOutcome(tt.outcome)
			if got != tt.want {
				t.Errorf("normalizeOutcome(%q) = %q, want %q", tt.outcome, got, tt.want)
			}
		})
	}
}

// TestOutcomeCardinality verifies that arbitrary outcome strings cannot
// grow the label set past the three known outcomes plus "other".
func TestOutcomeCardinality(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[normalizeOutcome("failure mode "+string(rune('a'+i%26)))] = true
	}
	seen[normalizeOutcome(OutcomeOK)] = true
	seen[normalizeOutcome(OutcomeInvalidInput)] = true
	seen[normalizeOutcome(OutcomeDivergence)] = true

	if len(seen) > 4 {
		t.Errorf("expected at most 4 outcome labels, got %d: %v", len(seen), seen)
	}
}

// TestRecordSimulationGathers verifies the counters land in the default
// registry under the trajsim prefix.
func TestRecordSimulationGathers(t *testing.T) {
	RecordSimulation(3*time.Millisecond, 42, OutcomeOK)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	var found bool
	for _, mf := range families {
		if mf.GetName() != "trajsim_simulations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == OutcomeOK {
					found = true
					if m.GetCounter().GetValue() < 1 {
						t.Errorf("ok counter = %v, want >= 1", m.GetCounter().GetValue())
					}
				}
			}
		}
	}
	if !found {
		t.Error("trajsim_simulations_total{outcome=\"ok\"} not found in gather output")
	}
}

// TestSnapshotFiltersForeignFamilies verifies Snapshot only logs trajsim
// metrics, not the runtime collectors that share the default registry.
func TestSnapshotFiltersForeignFamilies(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	RecordSweep(7)
	SetSweepWorkersActive(4)
	Snapshot(logger)

	out := buf.String()
	if !strings.Contains(out, "trajsim_sweeps_total") {
		t.Error("snapshot missing trajsim_sweeps_total")
	}
	if !strings.Contains(out, "trajsim_sweep_workers_active") {
		t.Error("snapshot missing trajsim_sweep_workers_active")
	}
	if strings.Contains(out, "go_goroutines") {
		t.Error("snapshot leaked runtime collector families")
	}
}
