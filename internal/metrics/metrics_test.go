package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreamware/graphdb/internal/store"
)

type fakeStats map[store.Kind]int

func (f fakeStats) Stats() map[store.Kind]int { return f }

func TestCollectorEmitsOneGaugePerStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := fakeStats{store.Node: 3, store.Relationship: 1}
	if err := Register(reg, stats); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Gather returned %d metric families, want 1", len(got))
	}

	byStore := make(map[string]float64)
	for _, m := range got[0].GetMetric() {
		var label string
		for _, l := range m.GetLabel() {
			if l.GetName() == "store" {
				label = l.GetValue()
			}
		}
		byStore[label] = m.GetGauge().GetValue()
	}

	if byStore["node_storage"] != 3 {
		t.Fatalf("node_storage gauge = %v, want 3", byStore["node_storage"])
	}
	if byStore["relationship_storage"] != 1 {
		t.Fatalf("relationship_storage gauge = %v, want 1", byStore["relationship_storage"])
	}
}
