package cmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/balaji-balu/clusterview/internal/service"
)

// One-shot queries run a single aggregation pass against the configured
// source and print the result as JSON.
type query func(ctx context.Context, svc *service.Service) (any, error)

func queryCommand(use, short string, q query) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp([]string{"stderr"})
			if err != nil {
				return err
			}
			defer a.close()

			out, err := q(cmd.Context(), a.svc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(
		queryCommand("system", "Show worker totals for the whole cluster",
			func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.GetSystemOverview(ctx)
			}),
		queryCommand("topology", "List reconciled nodes",
			func(ctx context.Context, svc *service.Service) (any, error) {
				nodes, err := svc.GetTopology(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"nodes": nodes}, nil
			}),
		queryCommand("workers", "List workers with queue totals",
			func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.GetWorkers(ctx)
			}),
		queryCommand("pools", "List pools from the runtime config",
			func(ctx context.Context, svc *service.Service) (any, error) {
				pools, err := svc.GetPools(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"pools": pools}, nil
			}),
		queryCommand("config", "Print the runtime config as JSON",
			func(ctx context.Context, svc *service.Service) (any, error) {
				cfg, err := svc.GetRuntimeConfig(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"config": cfg.Raw}, nil
			}),
	)
}
