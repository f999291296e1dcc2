package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newMoversCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "movers",
		Short: "Print the tools whose score moved most since the last snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(cmd)
			if limit > cfg.MaxMoversLimit {
				return fmt.Errorf("limit %d exceeds max_movers_limit %d", limit, cfg.MaxMoversLimit)
			}

			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			movers, err := svc.TopMovers(ctx, limit)
			if err != nil {
				return fmt.Errorf("movers: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(movers)
			}
			renderMovers(out, movers)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of movers (0 uses top_movers_limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a list")
	return cmd
}
