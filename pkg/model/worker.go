package model

import "encoding/json"

// WorkerStat is one worker record as reported by a container. Fields keeps
// the full record for display; the three counters are the normalized values.
type WorkerStat struct {
	Queued    int64
	Blocked   int64
	Processed int64
	Fields    map[string]any
}

func (w WorkerStat) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(w.Fields)+3)
	for k, v := range w.Fields {
		out[k] = v
	}
	out["queued"] = w.Queued
	out["blocked"] = w.Blocked
	out["processed"] = w.Processed
	return json.Marshal(out)
}

type WorkerSummary struct {
	Count     int   `json:"count"`
	Queued    int64 `json:"queued"`
	Blocked   int64 `json:"blocked"`
	Processed int64 `json:"processed"`
}

type WorkerReport struct {
	Workers []WorkerStat  `json:"workers"`
	Summary WorkerSummary `json:"summary"`
}

// SystemOverview is the condensed cluster view served on /api/system.
type SystemOverview struct {
	Connected bool  `json:"connected"`
	Workers   int   `json:"workers"`
	Queued    int64 `json:"queued"`
	Blocked   int64 `json:"blocked"`
	Processed int64 `json:"processed"`
}
