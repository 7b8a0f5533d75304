package reconcile

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/balaji-balu/clusterview/internal/report"
)

func TestNodesHigherEventIDWins(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(report.Record{"node_id": 1, "event_id": 5, "cpu_usage_pct": 10}),
		"c2": report.Sequence(report.Record{"node_id": 1, "event_id": 7, "cpu_usage_pct": 20}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].NodeID != 1 || nodes[0].CPUUsagePct != 20 {
		t.Fatalf("unexpected node: %+v", nodes[0])
	}
}

func TestNodesLowerEventIDDoesNotReplace(t *testing.T) {
	batch := report.Batch{
		"a": report.Sequence(report.Record{"node_id": 3, "event_id": 9, "ram_usage_pct": 50}),
		"b": report.Sequence(report.Record{"node_id": 3, "event_id": 2, "ram_usage_pct": 1}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 || nodes[0].RAMUsagePct != 50 {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestNodesEqualEventIDKeepsFirstSeen(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(
			report.Record{"node_id": 2, "event_id": 4, "ip_address": "10.0.0.1"},
			report.Record{"node_id": 2, "event_id": 4, "ip_address": "10.0.0.2"},
		),
		"c2": report.Sequence(report.Record{"node_id": 2, "event_id": 4, "ip_address": "10.0.0.3"}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 || nodes[0].IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestNodesMissingEventIDCountsAsZero(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(
			report.Record{"node_id": 1, "gpu_count": 2},
			report.Record{"node_id": 1, "event_id": 1, "gpu_count": 4},
			report.Record{"node_id": 1, "gpu_count": 8},
		),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 || nodes[0].GPUCount != 4 {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestNodesContainerIDFallback(t *testing.T) {
	batch := report.Batch{
		"7":       report.Single(report.Record{"hostname": "numeric"}),
		"runtime": report.Single(report.Record{"hostname": "named"}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %+v", nodes)
	}
	if nodes[0].NodeID != 0 || nodes[0].Hostname != "named" {
		t.Fatalf("non-numeric container id should map to node 0: %+v", nodes[0])
	}
	if nodes[1].NodeID != 7 || nodes[1].Hostname != "numeric" {
		t.Fatalf("numeric container id should parse: %+v", nodes[1])
	}
}

func TestNodesUnparseableNodeIDFallsBack(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(report.Record{"node_id": "not-a-number", "cpu_usage_pct": 5}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 || nodes[0].NodeID != 0 || nodes[0].CPUUsagePct != 5 {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		cid     string
		rec     report.Record
		wantKey string
		wantID  int64
	}{
		{"c1", report.Record{"node_id": 4}, "4", 4},
		{"c1", report.Record{"node_id": float64(4)}, "4", 4},
		{"c1", report.Record{}, "c1", 0},
		{"12", report.Record{}, "12", 12},
		{"12", report.Record{"node_id": nil}, "12", 12},
		{"c1", report.Record{"node_id": "010"}, "10", 10},
		{"c1", report.Record{"node_id": "0x1f"}, "c1", 0},
		{"017", report.Record{}, "017", 17},
		{"c1", report.Record{"node_id": json.Number("9007199254740993")}, "9007199254740993", 9007199254740993},
	}

	for _, tt := range tests {
		key, id := Identity(tt.cid, tt.rec)
		if key != tt.wantKey || id != tt.wantID {
			t.Errorf("Identity(%q, %v) = %q, %d; want %q, %d", tt.cid, tt.rec, key, id, tt.wantKey, tt.wantID)
		}
	}
}

func TestNodesDefaultsMissingFields(t *testing.T) {
	batch := report.Batch{"c1": report.Single(report.Record{"node_id": 1})}

	nodes := Nodes(batch, "fallback-host")
	n := nodes[0]
	if n.Hostname != "fallback-host" || n.IPAddress != "" || n.CPUUsagePct != 0 || n.GPUCount != 0 {
		t.Fatalf("unexpected defaults: %+v", n)
	}
}

func TestNodesHostnameFromSupersededRecord(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(
			report.Record{"node_id": 1, "event_id": 1, "hostname": "gpu-01"},
			report.Record{"node_id": 1, "event_id": 2, "hostname": ""},
		),
	}

	nodes := Nodes(batch, "local")
	if nodes[0].Hostname != "gpu-01" {
		t.Fatalf("expected hostname from earlier record, got %q", nodes[0].Hostname)
	}
}

func TestNodesIgnoresInvalidReports(t *testing.T) {
	batch := report.Batch{
		"c1": {},
		"c2": report.Sequence(),
		"c3": report.Sequence(report.Record{"node_id": 5}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 || nodes[0].NodeID != 5 {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestNodesIdempotent(t *testing.T) {
	batch := report.Batch{}
	for _, cid := range []string{"a", "b", "c", "d", "e"} {
		batch[cid] = report.Sequence(
			report.Record{"node_id": 1, "event_id": 3, "hostname": cid},
			report.Record{"node_id": 2, "event_id": 3, "hostname": cid},
			report.Record{"hostname": cid},
		)
	}

	first := Nodes(batch, "local")
	for i := 0; i < 20; i++ {
		if again := Nodes(batch, "local"); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
	if first[len(first)-1].Hostname != "a" {
		t.Fatalf("first-seen container should win ties: %+v", first)
	}
}

func TestNodesNonFiniteMetricsCountAsMissing(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(report.Record{"node_id": 1, "cpu_usage_pct": "NaN", "ram_usage_pct": 12.5}),
		"c2": report.Sequence(report.Record{"node_id": 2, "cpu_usage_pct": math.NaN(), "gpu_usage_pct": math.Inf(1), "hbm_usage_pct": "-Inf"}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.CPUUsagePct != 0 || n.GPUUsagePct != 0 || n.HBMUsagePct != 0 {
			t.Errorf("node %d kept a non-finite metric: %+v", n.NodeID, n)
		}
	}
	if nodes[0].RAMUsagePct != 12.5 {
		t.Errorf("finite metric lost: %+v", nodes[0])
	}
	if _, err := json.Marshal(nodes); err != nil {
		t.Fatalf("nodes must encode: %v", err)
	}
}

func TestNodesLargeEventIDsFromJSON(t *testing.T) {
	batch, err := report.DecodeBatchJSON([]byte(`{
		"c1": [{"node_id": 1, "event_id": 9007199254740992, "cpu_usage_pct": 10}],
		"c2": [{"node_id": 1, "event_id": 9007199254740993, "cpu_usage_pct": 20}]
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].CPUUsagePct != 20 || nodes[0].EventID != 9007199254740993 {
		t.Fatalf("higher event id should win: %+v", nodes[0])
	}
}

func TestNodesOctalLookingNodeID(t *testing.T) {
	batch := report.Batch{
		"c1": report.Sequence(report.Record{"node_id": "010", "event_id": 1, "cpu_usage_pct": 5}),
		"c2": report.Sequence(report.Record{"node_id": 10, "event_id": 2, "cpu_usage_pct": 6}),
	}

	nodes := Nodes(batch, "local")
	if len(nodes) != 1 || nodes[0].NodeID != 10 || nodes[0].CPUUsagePct != 6 {
		t.Fatalf("\"010\" and 10 should be the same node: %+v", nodes)
	}
}
