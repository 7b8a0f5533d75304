package runtimeconf

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/balaji-balu/clusterview/pkg/model"
)

const sample = `
networking:
  port: 9413
compose:
  - mod_name: chimaera_bdev
    pool_name: ram_bdev
    pool_id: 300.0
    pool_query: local
  - mod_name: wrp_cte_core
    pool_name: cte
  - just a string
1: numeric key
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func locator(explicit string, env map[string]string, home string) *Locator {
	return &Locator{
		Explicit: explicit,
		Getenv:   func(k string) string { return env[k] },
		HomeDir:  func() (string, error) { return home, nil },
	}
}

func TestParsePools(t *testing.T) {
	cfg, err := Parse("inline", []byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []model.Pool{
		{ModName: "chimaera_bdev", PoolName: "ram_bdev", PoolID: "300", PoolQuery: "local"},
		{ModName: "wrp_cte_core", PoolName: "cte"},
	}
	if len(cfg.Pools) != len(want) {
		t.Fatalf("got %d pools: %+v", len(cfg.Pools), cfg.Pools)
	}
	for i := range want {
		if cfg.Pools[i] != want[i] {
			t.Errorf("pool %d = %+v, want %+v", i, cfg.Pools[i], want[i])
		}
	}

	if _, err := json.Marshal(cfg.Raw); err != nil {
		t.Fatalf("raw config must be JSON encodable: %v", err)
	}
	if cfg.Raw["1"] != "numeric key" {
		t.Fatalf("numeric key not stringified: %v", cfg.Raw)
	}
}

func TestParseWithoutCompose(t *testing.T) {
	cfg, err := Parse("inline", []byte("networking: {port: 1}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Pools == nil || len(cfg.Pools) != 0 {
		t.Fatalf("expected empty non-nil pools, got %#v", cfg.Pools)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("inline", []byte("compose: [oops"))
	if !errors.Is(err, model.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestLocatorOrder(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit.yaml", "a: 1\n")
	fromEnv1 := writeFile(t, dir, "env1.yaml", "a: 2\n")
	fromEnv2 := writeFile(t, dir, "env2.yaml", "a: 3\n")
	home := filepath.Join(dir, "home")
	fromHome := writeFile(t, home, homeDefault, "a: 4\n")

	env := map[string]string{"CHI_SERVER_CONF": fromEnv1, "WRP_RUNTIME_CONF": fromEnv2}

	tests := []struct {
		name string
		l    *Locator
		want string
	}{
		{"explicit first", locator(explicit, env, home), explicit},
		{"server conf env", locator("", env, home), fromEnv1},
		{"runtime conf env", locator("", map[string]string{"WRP_RUNTIME_CONF": fromEnv2}, home), fromEnv2},
		{"home default", locator("", nil, home), fromHome},
		{"missing explicit falls through", locator(filepath.Join(dir, "gone.yaml"), nil, home), fromHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.l.Find()
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLocatorNotFound(t *testing.T) {
	l := locator("", nil, t.TempDir())

	_, err := l.Load()
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	want := []string{"CHI_SERVER_CONF", "WRP_RUNTIME_CONF", "~/.chimaera/chimaera.yaml"}
	if len(nf.Searched) != len(want) {
		t.Fatalf("searched = %v", nf.Searched)
	}
	for i := range want {
		if nf.Searched[i] != want[i] {
			t.Fatalf("searched = %v, want %v", nf.Searched, want)
		}
	}
}

func TestLocatorLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chimaera.yaml", sample)

	cfg, err := locator(path, nil, dir).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path || len(cfg.Pools) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseNonFiniteAndNestedKeys(t *testing.T) {
	doc := `
tuning:
  ratio: .nan
  ceiling: .inf
  lanes: {0: fast, 1: slow}
  samples: [1, -.inf, 2]
compose:
  - mod_name: m
    pool_id: .nan
`
	cfg, err := Parse("inline", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := json.Marshal(cfg.Raw); err != nil {
		t.Fatalf("raw config must be JSON encodable: %v", err)
	}

	tuning := cfg.Raw["tuning"].(map[string]any)
	if _, ok := tuning["ratio"]; ok {
		t.Fatalf("NaN setting should be dropped: %v", tuning)
	}
	if lanes := tuning["lanes"].(map[string]any); lanes["0"] != "fast" {
		t.Fatalf("lanes = %v", lanes)
	}
	if samples := tuning["samples"].([]any); len(samples) != 3 || samples[1] != nil {
		t.Fatalf("samples = %v", samples)
	}
	if len(cfg.Pools) != 1 || cfg.Pools[0].PoolID != "" {
		t.Fatalf("pools = %+v", cfg.Pools)
	}
}
