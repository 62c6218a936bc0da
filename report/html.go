package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/networkteam/saucecheck/journey"
)

// HTML writes a standalone HTML page with all results.
func HTML(ctx context.Context, w io.Writer, results []*journey.SuiteResult) error {
	return Page(NewDocument(results)).Render(ctx, w)
}

// Page is the templ component of a complete report page.
func Page(doc Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Journey report"
		if doc.Failed {
			title += " (failed)"
		}
		writef(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title>`, templ.EscapeString(title))
		writef(w, "<style>%s%s</style>", pageCSS, badgeCSS)
		if err := chromaStyles().Render(ctx, w); err != nil {
			return err
		}
		writef(w, "</head><body><h1>%s</h1>", templ.EscapeString(title))
		if err := statsLine(doc.Stats, doc.Generated).Render(ctx, w); err != nil {
			return err
		}
		for _, suite := range doc.Suites {
			if err := suiteSection(suite).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func statsLine(stats journey.Stats, generated time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<p class="stats">%d steps: %d passed, %d failed, %d errored, %d skipped. Generated %s.</p>`,
			stats.Total, stats.Passed, stats.Failed, stats.Errored, stats.Skipped,
			templ.EscapeString(generated.Format(time.RFC3339)))
		return nil
	})
}

func suiteSection(suite *journey.SuiteResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<section class="suite"><h2>%s <small>%s</small></h2>`,
			templ.EscapeString(suite.Name), formatDuration(suite.Duration))
		if suite.Error != "" {
			writef(w, `<p class="suite-error">%s %s</p>`,
				badge(BadgeProps{Variant: BadgeVariantError}, "not run"), templ.EscapeString(suite.Error))
		}
		io.WriteString(w, `<table><thead><tr><th>#</th><th>Step</th><th>Duration</th><th>Status</th><th>Details</th></tr></thead><tbody>`)
		for _, step := range suite.Steps {
			if err := stepRow(step).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table></section>")
		return err
	})
}

func stepRow(step journey.StepResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<tr class="step step-%s"><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>`,
			step.Status, step.ID, templ.EscapeString(step.Name), formatDuration(step.Duration),
			badge(statusBadge(step.Status), string(step.Status)))
		if msg := step.Message(); msg != "" {
			writef(w, `<div class="message">%s</div>`, templ.EscapeString(msg))
		}
		if step.Status.Failed() {
			if step.Screenshot != "" {
				writef(w, `<div><a href="%s">screenshot</a></div>`, templ.EscapeString(step.Screenshot))
			}
			if err := diagnostics(step).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</td></tr>")
		return err
	})
}

// diagnostics renders the captured failures, logs and console of a step as highlighted JSON.
func diagnostics(step journey.StepResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(step.Failures) == 0 && len(step.Logs) == 0 && len(step.Console) == 0 {
			return nil
		}
		data, err := json.MarshalIndent(struct {
			Failures []string `json:"failures,omitempty"`
			Logs     any      `json:"logs,omitempty"`
			Console  any      `json:"console,omitempty"`
		}{step.Failures, step.Logs, step.Console}, "", "  ")
		if err != nil {
			return err
		}
		io.WriteString(w, "<details><summary>diagnostics</summary>")
		if err := highlightContent(string(data), "application/json").Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</details>")
		return err
	})
}

func badge(props BadgeProps, label string) string {
	return fmt.Sprintf(`<span class="%s">%s</span>`, badgeClasses(props), templ.EscapeString(label))
}

// highlightContent applies syntax highlighting to the content
func highlightContent(content string, contentType string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		contentType = strings.Split(contentType, ";")[0]

		lexer := lexers.MatchMimeType(contentType)
		if lexer == nil {
			lexer = lexers.Fallback
		}

		formatter, style := chromaFormatterAndStyle()

		iterator, err := lexer.Tokenise(nil, content)
		if err != nil {
			return err
		}

		return formatter.Format(w, style, iterator)
	})
}

func chromaFormatterAndStyle() (*html.Formatter, *chroma.Style) {
	formatter := html.New(
		html.Standalone(false),
		html.WithClasses(true),
		html.TabWidth(2),
	)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	return formatter, style
}

func chromaStyles() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<style>")
		formatter, style := chromaFormatterAndStyle()
		err := formatter.WriteCSS(w, style)

		_, _ = io.WriteString(w, ".chroma { white-space: pre-wrap; padding: 0.5rem; }\n")
		_, _ = io.WriteString(w, "</style>")
		return err
	})
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

const pageCSS = `
body { font-family: system-ui, sans-serif; margin: 2rem; color: #171717; }
h2 small { color: #737373; font-weight: normal; font-size: 0.8em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
th, td { text-align: left; vertical-align: top; padding: 0.375rem 0.5rem; border-bottom: 1px solid #e5e5e5; }
tr.step-fail, tr.step-error { background: #fef2f2; }
.message { font-family: ui-monospace, monospace; white-space: pre-wrap; }
.suite-error { color: #b91c1c; }
`
