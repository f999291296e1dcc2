package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/toolboard/internal/domain/model"
)

func newScoresCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Score the catalog and print the leaderboard",
		Long: `Score the catalog as it is now and print every category, or one with
--category. Deltas compare against the latest stored snapshot; nothing is
written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := newService(ctx, configFrom(cmd))
			if err != nil {
				return err
			}
			defer svc.Stop()

			var board []model.CategoryScores
			if category != "" {
				c, err := svc.Category(ctx, category)
				if err != nil {
					return fmt.Errorf("category %q: %w", category, err)
				}
				board = []model.CategoryScores{c}
			} else if board, err = svc.Leaderboard(ctx); err != nil {
				return fmt.Errorf("leaderboard: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(board)
			}
			renderLeaderboard(out, board)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only print this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
