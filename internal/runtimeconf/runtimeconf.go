// Package runtimeconf locates and parses the runtime's YAML configuration,
// which is where pool descriptors live.
package runtimeconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/balaji-balu/clusterview/internal/report"
	"github.com/balaji-balu/clusterview/pkg/model"
)

// Environment variables consulted, in order, after an explicit path.
var EnvVars = []string{"CHI_SERVER_CONF", "WRP_RUNTIME_CONF"}

const homeDefault = ".chimaera/chimaera.yaml"

type Source interface {
	Load() (*RuntimeConfig, error)
}

type RuntimeConfig struct {
	Path  string
	Raw   map[string]any
	Pools []model.Pool
}

// NotFoundError reports that no candidate config file exists. It matches
// model.ErrNotFound.
type NotFoundError struct {
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no config file found (searched %s)", strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == model.ErrNotFound
}

// Locator finds the config file by walking an explicit path, the environment
// variables in EnvVars and finally ~/.chimaera/chimaera.yaml.
type Locator struct {
	Explicit string
	Getenv   func(string) string
	HomeDir  func() (string, error)
}

func NewLocator(explicit string) *Locator {
	return &Locator{Explicit: explicit, Getenv: os.Getenv, HomeDir: os.UserHomeDir}
}

// Searched lists the locations Find checks, for error reporting.
func (l *Locator) Searched() []string {
	var out []string
	if l.Explicit != "" {
		out = append(out, l.Explicit)
	}
	out = append(out, EnvVars...)
	out = append(out, "~/"+homeDefault)
	return out
}

func (l *Locator) candidates() []string {
	var out []string
	if l.Explicit != "" {
		out = append(out, l.Explicit)
	}
	for _, name := range EnvVars {
		if v := l.Getenv(name); v != "" {
			out = append(out, v)
		}
	}
	if home, err := l.HomeDir(); err == nil && home != "" {
		out = append(out, filepath.Join(home, homeDefault))
	}
	return out
}

// Find returns the first candidate that is an existing regular file.
func (l *Locator) Find() (string, error) {
	for _, path := range l.candidates() {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", &NotFoundError{Searched: l.Searched()}
}

func (l *Locator) Load() (*RuntimeConfig, error) {
	path, err := l.Find()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Searched: []string{path}}
		}
		return nil, fmt.Errorf("%w: read runtime config: %v", model.ErrSourceUnavailable, err)
	}
	return Parse(path, data)
}

func Parse(path string, data []byte) (*RuntimeConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse runtime config %s: %v", model.ErrSourceUnavailable, path, err)
	}

	raw, ok := report.Sanitize(doc).(map[string]any)
	if !ok {
		// empty documents and top-level scalars carry no settings
		raw = map[string]any{}
	}
	return &RuntimeConfig{Path: path, Raw: raw, Pools: pools(raw)}, nil
}

func pools(raw map[string]any) []model.Pool {
	entries, _ := raw["compose"].([]any)
	out := make([]model.Pool, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.Pool{
			ModName:   field(m, "mod_name"),
			PoolName:  field(m, "pool_name"),
			PoolID:    field(m, "pool_id"),
			PoolQuery: field(m, "pool_query"),
		})
	}
	return out
}

func field(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
