package source

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/balaji-balu/clusterview/internal/report"
)

// FileSource serves batches from a snapshot file, re-read on every fetch.
// The file is YAML (or JSON) with top-level worker_stats and system_stats
// objects keyed by container id.
type FileSource struct {
	path string
}

type snapshot struct {
	WorkerStats report.Batch `yaml:"worker_stats"`
	SystemStats report.Batch `yaml:"system_stats"`
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) FetchWorkerStats(ctx context.Context) (report.Batch, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.WorkerStats == nil {
		return nil, unavailable("%s: no %s section", s.path, workerStats)
	}
	return snap.WorkerStats, nil
}

func (s *FileSource) FetchSystemStatsAll(ctx context.Context) (report.Batch, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.SystemStats == nil {
		return nil, unavailable("%s: no %s section", s.path, systemStats)
	}
	return snap.SystemStats, nil
}

func (s *FileSource) load(ctx context.Context) (*snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("%s: %v", s.path, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, unavailable("read snapshot: %v", err)
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, unavailable("parse snapshot %s: %v", s.path, err)
	}
	return &snap, nil
}
