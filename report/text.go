// Package report renders suite results as a console table, JSON or a standalone HTML page.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/networkteam/saucecheck/journey"
)

// Format names accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Formats lists the supported report formats.
var Formats = []string{FormatText, FormatJSON, FormatHTML}

// Summary returns the step counts over all results.
func Summary(results []*journey.SuiteResult) journey.Stats {
	var stats journey.Stats
	for _, result := range results {
		stats.Merge(result.Stats)
	}
	return stats
}

// Failed reports whether any of the results failed.
func Failed(results []*journey.SuiteResult) bool {
	return lo.SomeBy(results, func(r *journey.SuiteResult) bool { return r.Failed() })
}

// TextOptions configures the console table.
type TextOptions struct {
	// Color enables the colored table style.
	Color bool
	// ErrorWidth wraps the error column. Default: 60
	ErrorWidth int
}

// Text writes one table row per suite and step with a totals footer.
func Text(w io.Writer, results []*journey.SuiteResult, opts TextOptions) error {
	if opts.ErrorWidth == 0 {
		opts.ErrorWidth = 60
	}

	total := lo.SumBy(results, func(r *journey.SuiteResult) time.Duration { return r.Duration })
	stats := Summary(results)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Journey results (%s)", formatDuration(total)))
	t.AppendHeader(table.Row{"Suite", "Step", "Duration", "Status", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", AutoMerge: true},
		{Name: "Step", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: opts.ErrorWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, result := range results {
		if result.Error != "" {
			t.AppendRow(table.Row{result.Name, "-", formatDuration(result.Duration), statusString(journey.StatusError), result.Error})
		}
		for i, step := range result.Steps {
			prefix := "├─"
			if i == len(result.Steps)-1 {
				prefix = "└─"
			}
			t.AppendRow(table.Row{
				result.Name,
				fmt.Sprintf("%s %d %s", prefix, step.ID, step.Name),
				formatDuration(step.Duration),
				statusString(step.Status),
				step.Message(),
			})
		}
		t.AppendSeparator()
	}

	overall := journey.StatusPass
	switch {
	case Failed(results):
		overall = journey.StatusFail
	case stats.Total == 0 || stats.Skipped == stats.Total:
		overall = journey.StatusSkip
	}

	if opts.Color {
		switch overall {
		case journey.StatusPass:
			t.SetStyle(table.StyleColoredBlackOnGreenWhite)
		case journey.StatusSkip:
			t.SetStyle(table.StyleColoredBlackOnYellowWhite)
		default:
			t.SetStyle(table.StyleColoredBlackOnRedWhite)
		}
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.Style().Format.Footer = text.FormatDefault
	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d steps, %d passed, %d failed, %d errored, %d skipped",
			stats.Total, stats.Passed, stats.Failed, stats.Errored, stats.Skipped),
		formatDuration(total),
		statusString(overall),
		"",
	})

	t.Render()
	return nil
}

func statusString(status journey.Status) string {
	switch status {
	case journey.StatusPass:
		return "✓ pass"
	case journey.StatusFail:
		return "✗ fail"
	case journey.StatusError:
		return "! error"
	case journey.StatusSkip:
		return "- skip"
	default:
		return string(status)
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
