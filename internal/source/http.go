package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/balaji-balu/clusterview/internal/report"
)

// HTTPSource reads batches from a runtime monitor endpoint that serves
// GET <base>/worker_stats and GET <base>/system_stats.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) FetchWorkerStats(ctx context.Context) (report.Batch, error) {
	return s.fetch(ctx, workerStats)
}

func (s *HTTPSource) FetchSystemStatsAll(ctx context.Context) (report.Batch, error) {
	return s.fetch(ctx, systemStats)
}

func (s *HTTPSource) fetch(ctx context.Context, path string) (report.Batch, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, unavailable("build request %s: %v", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, unavailable("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("read %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("get %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	batch, err := report.DecodeBatchJSON(body)
	if err != nil {
		return nil, unavailable("%s: %v", url, err)
	}
	return batch, nil
}
