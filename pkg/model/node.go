package model

// NodeStat is the canonical record for one physical node after reconciliation.
// EventID only orders duplicate reports and is never serialized.
type NodeStat struct {
	NodeID      int64   `json:"node_id"`
	Hostname    string  `json:"hostname"`
	IPAddress   string  `json:"ip_address"`
	CPUUsagePct float64 `json:"cpu_usage_pct"`
	RAMUsagePct float64 `json:"ram_usage_pct"`
	GPUCount    int64   `json:"gpu_count"`
	GPUUsagePct float64 `json:"gpu_usage_pct"`
	HBMUsagePct float64 `json:"hbm_usage_pct"`
	EventID     int64   `json:"-"`
}
