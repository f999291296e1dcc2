package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run the weekly batch: score, diff and persist this week's snapshot",
		Long: `Score the catalog, compare it against the most recent stored snapshot and
persist the result under the current week id. Running again in the same week
leaves the stored snapshot untouched. Tools whose score moved by more than
significant_delta are reported.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := newService(ctx, configFrom(cmd))
			if err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.RunSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			renderBatch(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the batch result as JSON")
	return cmd
}
