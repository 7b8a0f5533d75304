package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CLUSTERVIEW"

const (
	SourceHTTP = "http"
	SourceNATS = "nats"
	SourceFile = "file"
)

type Config struct {
	Server struct {
		Port int    `mapstructure:"port"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"server"`
	Log struct {
		Env     string   `mapstructure:"env"`
		Outputs []string `mapstructure:"outputs"`
	} `mapstructure:"log"`
	Source   SourceConfig `mapstructure:"source"`
	Topology struct {
		DefaultHostname string `mapstructure:"default_hostname"`
	} `mapstructure:"topology"`
	RuntimeConfig struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"runtime_config"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type SourceConfig struct {
	Kind string `mapstructure:"kind"`
	HTTP struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"http"`
	NATS struct {
		URL           string        `mapstructure:"url"`
		SubjectPrefix string        `mapstructure:"subject_prefix"`
		Timeout       time.Duration `mapstructure:"timeout"`
	} `mapstructure:"nats"`
	File struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"file"`
}

type TracingConfig struct {
	Exporter    string `mapstructure:"exporter"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.env", "production")
	v.SetDefault("log.outputs", []string{"stdout"})
	v.SetDefault("source.kind", SourceHTTP)
	v.SetDefault("source.http.base_url", "http://localhost:9413")
	v.SetDefault("source.http.timeout", 5*time.Second)
	v.SetDefault("source.nats.url", "nats://localhost:4222")
	v.SetDefault("source.nats.subject_prefix", "chimaera.monitor")
	v.SetDefault("source.nats.timeout", 5*time.Second)
	v.SetDefault("source.file.path", "")
	v.SetDefault("topology.default_hostname", "")
	v.SetDefault("runtime_config.path", "")
	v.SetDefault("tracing.exporter", "none")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.service_name", "clusterview")
}

// LoadConfig reads the optional YAML file at path, applies CLUSTERVIEW_*
// environment overrides and fills in defaults. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Topology.DefaultHostname == "" {
		if host, err := os.Hostname(); err == nil {
			cfg.Topology.DefaultHostname = host
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server.mode %q", c.Server.Mode)
	}
	switch c.Source.Kind {
	case SourceHTTP:
		if c.Source.HTTP.BaseURL == "" {
			return fmt.Errorf("source.http.base_url is required")
		}
	case SourceNATS:
		if c.Source.NATS.URL == "" {
			return fmt.Errorf("source.nats.url is required")
		}
	case SourceFile:
		if c.Source.File.Path == "" {
			return fmt.Errorf("source.file.path is required")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown tracing.exporter %q", c.Tracing.Exporter)
	}
	return nil
}
