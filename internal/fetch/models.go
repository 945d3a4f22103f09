package fetch

import (
	"time"
	"unicode/utf8"

	"github.com/dtnitsch/drive-digest/models"
)

// FinalOutput is the structured report for one summarize run.
type FinalOutput struct {
	Status   string                `json:"status" yaml:"status"`
	Source   Source                `json:"source" yaml:"source"`
	Summary  string                `json:"summary" yaml:"summary"`
	Delivery models.DeliveryStatus `json:"delivery" yaml:"delivery"`
	Stats    Stats                 `json:"stats" yaml:"stats"`
}

type Source struct {
	Link   string `json:"link" yaml:"link"`
	Format string `json:"format" yaml:"format"`
	ID     string `json:"id" yaml:"id"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	ExtractedChars   int     `json:"extracted_chars" yaml:"extracted_chars"`
	ExtractFailed    bool    `json:"extract_failed" yaml:"extract_failed"`
	SummaryFailed    bool    `json:"summary_failed" yaml:"summary_failed"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// statsOf counts extracted characters as runes, the same unit the
// summarizer truncates by.
func statsOf(d models.Delivered, elapsed time.Duration) Stats {
	return Stats{
		ExtractedChars:   utf8.RuneCountInString(d.ExtractedText),
		ExtractFailed:    d.ExtractFailed,
		SummaryFailed:    d.SummaryFailed,
		TotalTimeSeconds: elapsed.Seconds(),
	}
}

func statusOf(d models.Delivered) string {
	switch {
	case !d.Status.OK:
		return "failed"
	case d.ExtractFailed || d.SummaryFailed:
		return "partial_failure"
	default:
		return "success"
	}
}

// textReport is the plain-text rendering: the summary header first, then
// the delivery status line.
func textReport(out FinalOutput) string {
	return "--- Summary ---\n" + out.Summary + "\n\n" + out.Delivery.Message
}
