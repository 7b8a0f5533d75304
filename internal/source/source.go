// Package source provides the Telemetry Source collaborators the aggregation
// service reads from. Every implementation enforces its own timeout and wraps
// every failure in model.ErrSourceUnavailable; none of them retry.
package source

import (
	"context"
	"fmt"

	"github.com/balaji-balu/clusterview/internal/config"
	"github.com/balaji-balu/clusterview/internal/report"
	"github.com/balaji-balu/clusterview/pkg/model"
)

type Source interface {
	FetchWorkerStats(ctx context.Context) (report.Batch, error)
	FetchSystemStatsAll(ctx context.Context) (report.Batch, error)
}

const (
	workerStats = "worker_stats"
	systemStats = "system_stats"
)

// New builds the source selected by cfg.Kind. The returned close func
// releases any connection the source holds.
func New(cfg config.SourceConfig) (Source, func(), error) {
	switch cfg.Kind {
	case config.SourceHTTP:
		return NewHTTPSource(cfg.HTTP.BaseURL, cfg.HTTP.Timeout), func() {}, nil
	case config.SourceNATS:
		s, err := DialNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix, cfg.NATS.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.SourceFile:
		return NewFileSource(cfg.File.Path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrSourceUnavailable, fmt.Sprintf(format, args...))
}
