package report

import (
	"context"
	"fmt"
	"io"

	"github.com/networkteam/saucecheck/journey"
)

// Write renders results in the named format.
func Write(ctx context.Context, w io.Writer, format string, results []*journey.SuiteResult) error {
	switch format {
	case FormatText, "":
		return Text(w, results, TextOptions{})
	case FormatJSON:
		return JSON(w, results)
	case FormatHTML:
		return HTML(ctx, w, results)
	default:
		return fmt.Errorf("unknown report format %q, expected one of %v", format, Formats)
	}
}
