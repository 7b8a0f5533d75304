package model

// Pool describes one entry of the runtime's compose section.
type Pool struct {
	ModName   string `json:"mod_name" yaml:"mod_name"`
	PoolName  string `json:"pool_name" yaml:"pool_name"`
	PoolID    string `json:"pool_id" yaml:"pool_id"`
	PoolQuery string `json:"pool_query" yaml:"pool_query"`
}
