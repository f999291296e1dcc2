package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/toolboard/internal/verify"
)

// errVerifyFailed marks a completed verification that found problems.
var errVerifyFailed = errors.New("leaderboard verification failed")

func newVerifyCmd() *cobra.Command {
	var (
		baseURL     string
		timeout     time.Duration
		concurrency int
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a running server's leaderboard for ranking invariants",
		Long: `Fetch the leaderboard, every category route and the movers route from a
running server and check dense ranks, ordering, score ranges and delta
pairing. Exits non-zero when any check fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseURL == "" {
				baseURL = "http://localhost" + configFrom(cmd).Addr
			}

			client := verify.NewClient(baseURL,
				verify.WithTimeout(timeout),
				verify.WithConcurrency(concurrency),
				verify.WithMoversLimit(limit),
			)
			rep, err := client.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("verify %s: %w", baseURL, err)
			}

			renderReport(cmd.OutOrStdout(), rep)
			if !rep.OK() {
				return errVerifyFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "Server base URL (default http://localhost<addr>)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel category requests")
	cmd.Flags().IntVar(&limit, "limit", 5, "Movers limit to request")
	return cmd
}
