// Package service implements the read-only aggregation queries. Every query
// performs exactly one fetch against its source and reduces the snapshot in
// memory; nothing is cached or retried between calls.
package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/balaji-balu/clusterview/internal/aggregate"
	"github.com/balaji-balu/clusterview/internal/logger"
	"github.com/balaji-balu/clusterview/internal/metrics"
	"github.com/balaji-balu/clusterview/internal/reconcile"
	"github.com/balaji-balu/clusterview/internal/report"
	"github.com/balaji-balu/clusterview/internal/runtimeconf"
	"github.com/balaji-balu/clusterview/internal/source"
	"github.com/balaji-balu/clusterview/pkg/model"
)

const (
	OpSystem   = "system"
	OpTopology = "topology"
	OpWorkers  = "workers"
	OpPools    = "pools"
	OpConfig   = "config"
)

type Service struct {
	src             source.Source
	conf            runtimeconf.Source
	defaultHostname string
	sourceName      string
	log             *logger.Logger
	metrics         *metrics.Metrics
	tracer          trace.Tracer
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultHostname sets the hostname reported for nodes whose records
// never carry one.
func WithDefaultHostname(h string) Option {
	return func(s *Service) { s.defaultHostname = h }
}

func WithSourceName(name string) Option {
	return func(s *Service) { s.sourceName = name }
}

func New(src source.Source, conf runtimeconf.Source, opts ...Option) *Service {
	s := &Service{
		src:    src,
		conf:   conf,
		log:    logger.NewNop(),
		tracer: otel.Tracer("clusterview/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSystemOverview reports worker totals. On a fetch failure the overview is
// marked disconnected and carries no counts.
func (s *Service) GetSystemOverview(ctx context.Context) (model.SystemOverview, error) {
	ctx, span := s.tracer.Start(ctx, "GetSystemOverview")
	defer span.End()

	batch, err := s.fetch(ctx, span, OpSystem, s.src.FetchWorkerStats)
	if err != nil {
		return model.SystemOverview{Connected: false}, err
	}

	overview := aggregate.Overview(aggregate.Workers(batch))
	span.SetAttributes(attribute.Int("clusterview.workers", overview.Workers))
	s.metrics.Observe(OpSystem, nil)
	return overview, nil
}

// GetTopology returns one reconciled NodeStat per physical node. The slice is
// never nil on success.
func (s *Service) GetTopology(ctx context.Context) ([]model.NodeStat, error) {
	ctx, span := s.tracer.Start(ctx, "GetTopology")
	defer span.End()

	batch, err := s.fetch(ctx, span, OpTopology, s.src.FetchSystemStatsAll)
	if err != nil {
		return nil, err
	}

	nodes := reconcile.Nodes(batch, s.defaultHostname)
	span.SetAttributes(attribute.Int("clusterview.nodes", len(nodes)))
	s.metrics.SetNodes(len(nodes))
	s.metrics.Observe(OpTopology, nil)
	return nodes, nil
}

func (s *Service) GetWorkers(ctx context.Context) (model.WorkerReport, error) {
	ctx, span := s.tracer.Start(ctx, "GetWorkers")
	defer span.End()

	batch, err := s.fetch(ctx, span, OpWorkers, s.src.FetchWorkerStats)
	if err != nil {
		return model.WorkerReport{}, err
	}

	r := aggregate.Workers(batch)
	span.SetAttributes(attribute.Int("clusterview.workers", r.Summary.Count))
	s.metrics.SetWorkers(r.Summary.Count)
	s.metrics.Observe(OpWorkers, nil)
	return r, nil
}

// GetPools lists the pool descriptors of the runtime config. A missing config
// is reported as model.ErrNotFound.
func (s *Service) GetPools(ctx context.Context) ([]model.Pool, error) {
	cfg, err := s.loadConfig(ctx, OpPools)
	if err != nil {
		return nil, err
	}
	return cfg.Pools, nil
}

// GetRuntimeConfig returns the whole runtime config document.
func (s *Service) GetRuntimeConfig(ctx context.Context) (*runtimeconf.RuntimeConfig, error) {
	return s.loadConfig(ctx, OpConfig)
}

func (s *Service) loadConfig(ctx context.Context, op string) (*runtimeconf.RuntimeConfig, error) {
	_, span := s.tracer.Start(ctx, "LoadRuntimeConfig", trace.WithAttributes(attribute.String("clusterview.op", op)))
	defer span.End()

	if s.conf == nil {
		err := &runtimeconf.NotFoundError{}
		s.metrics.Observe(op, err)
		return nil, err
	}

	cfg, err := s.conf.Load()
	s.metrics.Observe(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Ctx(ctx).Warn("runtime config unavailable", zap.String("op", op), zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("clusterview.config_path", cfg.Path))
	return cfg, nil
}

func (s *Service) fetch(ctx context.Context, span trace.Span, op string, fn func(context.Context) (report.Batch, error)) (report.Batch, error) {
	batch, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.Observe(op, err)
		s.log.Ctx(ctx).Error("telemetry fetch failed", err,
			zap.String("op", op),
			zap.String("source", s.sourceName),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	span.SetAttributes(attribute.Int("clusterview.containers", len(batch)))
	return batch, nil
}
