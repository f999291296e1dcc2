package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	service "github.com/okian/toolboard/internal/app"
	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/internal/verify"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	upStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	calloutStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")).PaddingLeft(2)
)

// formatDelta renders an optional delta: "new" when unmatched, "=" when
// unchanged, otherwise a signed number.
func formatDelta(d *int) string {
	switch {
	case d == nil:
		return "new"
	case *d == 0:
		return "="
	default:
		return fmt.Sprintf("%+d", *d)
	}
}

func styleDelta(d *int) string {
	s := fmt.Sprintf("%5s", formatDelta(d))
	switch {
	case d == nil:
		return mutedStyle.Render(s)
	case *d > 0:
		return upStyle.Render(s)
	case *d < 0:
		return downStyle.Render(s)
	}
	return s
}

// renderLeaderboard prints every category as a ranked table.
func renderLeaderboard(w io.Writer, categories []model.CategoryScores) {
	if len(categories) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("catalog is empty"))
		return
	}
	for i, c := range categories {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(c.Category))
		if c.EditorCallout != "" {
			fmt.Fprintln(w, calloutStyle.Render(c.EditorCallout))
		}
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%4s  %-24s %5s %5s %5s %5s %5s %5s %5s", "#", "tool", "total", "value", "qual", "adopt", "ux", "rank", "score")))
		for _, t := range c.Tools {
			fmt.Fprintf(w, "%4d  %-24s %5d %5d %5d %5d %5d %s %s\n",
				t.Rank, truncate(t.ID, 24), t.TotalScore,
				t.Dimensions.Value, t.Dimensions.Quality, t.Dimensions.Adoption, t.Dimensions.UX,
				styleDelta(t.RankDelta), styleDelta(t.ScoreDelta))
			if t.Explanation != "" {
				fmt.Fprintln(w, mutedStyle.Render("      "+t.Explanation))
			}
		}
	}
}

// renderMovers prints a Top-Movers list.
func renderMovers(w io.Writer, movers []model.ToolScore) {
	fmt.Fprintln(w, titleStyle.Render("Top movers"))
	if len(movers) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no score movement since the last snapshot"))
		return
	}
	for i, t := range movers {
		fmt.Fprintf(w, "%2d. %-24s %-20s score %s  rank %s  now #%d\n",
			i+1, truncate(t.ID, 24), truncate(t.Category, 20),
			styleDelta(t.ScoreDelta), styleDelta(t.RankDelta), t.Rank)
	}
}

// renderBatch prints the outcome of a weekly snapshot run.
func renderBatch(w io.Writer, res service.BatchResult) {
	fmt.Fprintln(w, titleStyle.Render("Weekly snapshot "+res.Week))
	fmt.Fprintf(w, "run:        %s\n", res.RunID)
	fmt.Fprintf(w, "tools:      %d in %d categories\n", res.Tools, res.Categories)

	prior := res.PriorWeek
	if prior == "" {
		prior = mutedStyle.Render("none (cold start)")
	}
	fmt.Fprintf(w, "compared:   %s\n", prior)

	if !res.Written {
		fmt.Fprintln(w, warnStyle.Render("snapshot already exists for this week; nothing written"))
		return
	}
	fmt.Fprintln(w, successStyle.Render("snapshot written"))

	if len(res.Significant) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d significant movers", len(res.Significant))))
	for _, t := range res.Significant {
		fmt.Fprintf(w, "  %-24s %-20s score %s  rank %s\n",
			truncate(t.ID, 24), truncate(t.Category, 20), styleDelta(t.ScoreDelta), styleDelta(t.RankDelta))
	}
}

// renderReport prints a verification report.
func renderReport(w io.Writer, rep verify.Report) {
	fmt.Fprintln(w, titleStyle.Render("Verify "+rep.BaseURL))
	fmt.Fprintf(w, "categories: %d  tools: %d  movers: %d  took: %s\n", rep.Categories, rep.Tools, rep.Movers, rep.Duration.Round(time.Millisecond))
	if rep.OK() {
		fmt.Fprintln(w, successStyle.Render("all leaderboard invariants hold"))
		return
	}
	fmt.Fprintln(w, downStyle.Bold(true).Render(fmt.Sprintf("%d problems", len(rep.Problems))))
	for _, p := range rep.Problems {
		fmt.Fprintln(w, "  - "+p)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
