package source

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/balaji-balu/clusterview/internal/report"
)

type requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// NATSSource asks the runtime for stats over NATS request/reply on
// <prefix>.worker_stats and <prefix>.system_stats.
type NATSSource struct {
	conn    requester
	closer  func()
	prefix  string
	timeout time.Duration
}

// DialNATS connects to url. The connection is retried in the background, so
// an unreachable server shows up as failed fetches rather than a startup error.
func DialNATS(url, prefix string, timeout time.Duration) (*NATSSource, error) {
	nc, err := nats.Connect(url,
		nats.Name("clusterview"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, unavailable("connect %s: %v", url, err)
	}
	return &NATSSource{conn: nc, closer: nc.Close, prefix: prefix, timeout: timeout}, nil
}

func (s *NATSSource) FetchWorkerStats(ctx context.Context) (report.Batch, error) {
	return s.request(ctx, workerStats)
}

func (s *NATSSource) FetchSystemStatsAll(ctx context.Context) (report.Batch, error) {
	return s.request(ctx, systemStats)
}

func (s *NATSSource) request(ctx context.Context, topic string) (report.Batch, error) {
	subj := s.prefix + "." + topic
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msg, err := s.conn.RequestWithContext(ctx, subj, nil)
	if err != nil {
		return nil, unavailable("request %s: %v", subj, err)
	}
	batch, err := report.DecodeBatchJSON(msg.Data)
	if err != nil {
		return nil, unavailable("%s: %v", subj, err)
	}
	return batch, nil
}

func (s *NATSSource) Close() {
	if s.closer != nil {
		s.closer()
	}
}
