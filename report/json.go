package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/networkteam/saucecheck/journey"
)

// Document is the JSON report.
type Document struct {
	Generated time.Time              `json:"generated"`
	Failed    bool                   `json:"failed"`
	Stats     journey.Stats          `json:"stats"`
	Suites    []*journey.SuiteResult `json:"suites"`
}

// NewDocument summarizes results into a report document.
func NewDocument(results []*journey.SuiteResult) Document {
	if results == nil {
		results = []*journey.SuiteResult{}
	}
	return Document{
		Generated: time.Now(),
		Failed:    Failed(results),
		Stats:     Summary(results),
		Suites:    results,
	}
}

// JSON writes the results as an indented JSON document.
func JSON(w io.Writer, results []*journey.SuiteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(results))
}
