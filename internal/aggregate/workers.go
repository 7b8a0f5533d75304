// Package aggregate flattens worker-level reports across containers.
package aggregate

import (
	"github.com/balaji-balu/clusterview/internal/report"
	"github.com/balaji-balu/clusterview/pkg/model"
)

// Workers concatenates every worker record of every container and totals the
// queue counters. Workers never overlap across containers, so nothing is
// deduplicated. Passthrough fields are sanitized so the report always
// encodes.
func Workers(batch report.Batch) model.WorkerReport {
	out := model.WorkerReport{Workers: []model.WorkerStat{}}

	for _, cid := range report.ContainerIDs(batch) {
		for _, rec := range report.Normalize(batch[cid]) {
			w := model.WorkerStat{
				Queued:    rec.Count("queued"),
				Blocked:   rec.Count("blocked"),
				Processed: rec.Count("processed"),
				Fields:    report.Sanitize(rec).(report.Record),
			}
			out.Workers = append(out.Workers, w)
			out.Summary.Queued += w.Queued
			out.Summary.Blocked += w.Blocked
			out.Summary.Processed += w.Processed
		}
	}
	out.Summary.Count = len(out.Workers)
	return out
}

// Overview condenses a worker report into the system view.
func Overview(r model.WorkerReport) model.SystemOverview {
	return model.SystemOverview{
		Connected: true,
		Workers:   r.Summary.Count,
		Queued:    r.Summary.Queued,
		Blocked:   r.Summary.Blocked,
		Processed: r.Summary.Processed,
	}
}
