package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balaji-balu/clusterview/internal/config"
	"github.com/balaji-balu/clusterview/internal/logger"
	"github.com/balaji-balu/clusterview/internal/runtimeconf"
	"github.com/balaji-balu/clusterview/internal/service"
	"github.com/balaji-balu/clusterview/internal/source"
)

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "clusterview",
		Short: "Cluster telemetry aggregation and monitoring API",
		Long: `clusterview pulls per-container statistics from the runtime, reconciles
them into one record per node and serves worker, topology and pool views.`,
		SilenceUsage: true,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	svc   *service.Service
	close func()
}

func newApp(logOutputs []string, opts ...service.Option) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	env := cfg.Log.Env
	if verbose {
		env = "development"
	}
	if logOutputs == nil {
		logOutputs = cfg.Log.Outputs
	}
	l, err := logger.New(env, "clusterview", logOutputs)
	if err != nil {
		return nil, err
	}

	src, closeSrc, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}

	opts = append([]service.Option{
		service.WithLogger(l),
		service.WithDefaultHostname(cfg.Topology.DefaultHostname),
		service.WithSourceName(cfg.Source.Kind),
	}, opts...)
	svc := service.New(src, runtimeconf.NewLocator(cfg.RuntimeConfig.Path), opts...)

	return &app{
		cfg: cfg,
		log: l,
		svc: svc,
		close: func() {
			closeSrc()
			l.Sync()
		},
	}, nil
}
