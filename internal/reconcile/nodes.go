// Package reconcile merges node-level reports from many containers into one
// canonical record per physical node.
package reconcile

import (
	"sort"
	"strconv"

	"github.com/balaji-balu/clusterview/internal/report"
	"github.com/balaji-balu/clusterview/pkg/model"
)

type candidate struct {
	key      string
	stat     model.NodeStat
	hostname string // last non-empty hostname seen for this identity
}

// Identity derives the key a record is reconciled under and the numeric id
// exposed for it. An explicit integer node_id wins; otherwise the container
// id is used and parsed as an integer on a best-effort basis.
func Identity(containerID string, rec report.Record) (string, int64) {
	if id, ok := rec.Int("node_id"); ok {
		return strconv.FormatInt(id, 10), id
	}
	id, err := strconv.ParseInt(containerID, 10, 64)
	if err != nil {
		return containerID, 0
	}
	return containerID, id
}

// Nodes reconciles a batch into one NodeStat per derived identity. Among
// duplicates the record with the strictly greatest event_id survives, so equal
// event ids keep whichever was seen first. Containers are visited in sorted id
// order and the result is sorted by node id, which keeps repeated calls over
// the same batch identical.
func Nodes(batch report.Batch, defaultHostname string) []model.NodeStat {
	best := make(map[string]*candidate)

	for _, cid := range report.ContainerIDs(batch) {
		for _, rec := range report.Normalize(batch[cid]) {
			key, nodeID := Identity(cid, rec)
			stat := nodeStat(nodeID, rec)

			cur, ok := best[key]
			if !ok {
				cur = &candidate{key: key, stat: stat}
				best[key] = cur
			} else if stat.EventID > cur.stat.EventID {
				cur.stat = stat
			}
			if stat.Hostname != "" {
				cur.hostname = stat.Hostname
			}
		}
	}

	out := make([]*candidate, 0, len(best))
	for _, c := range best {
		if c.stat.Hostname == "" {
			c.stat.Hostname = c.hostname
		}
		if c.stat.Hostname == "" {
			c.stat.Hostname = defaultHostname
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].stat.NodeID != out[j].stat.NodeID {
			return out[i].stat.NodeID < out[j].stat.NodeID
		}
		return out[i].key < out[j].key
	})

	nodes := make([]model.NodeStat, len(out))
	for i, c := range out {
		nodes[i] = c.stat
	}
	return nodes
}

func nodeStat(nodeID int64, rec report.Record) model.NodeStat {
	stat := model.NodeStat{NodeID: nodeID}
	stat.Hostname, _ = rec.String("hostname")
	stat.IPAddress, _ = rec.String("ip_address")
	stat.CPUUsagePct, _ = rec.Float("cpu_usage_pct")
	stat.RAMUsagePct, _ = rec.Float("ram_usage_pct")
	stat.GPUUsagePct, _ = rec.Float("gpu_usage_pct")
	stat.HBMUsagePct, _ = rec.Float("hbm_usage_pct")
	stat.GPUCount, _ = rec.Int("gpu_count")
	stat.EventID, _ = rec.Int("event_id")
	return stat
}
