package folder

import (
	"strings"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/walker"
)

// FinalOutput is the structured report for one folder browse.
type FinalOutput struct {
	FolderID  string                 `json:"folder_id" yaml:"folder_id"`
	Files     []File                 `json:"files" yaml:"files"`
	Summaries []models.SummaryRecord `json:"summaries" yaml:"summaries"`
	Delivery  *models.DeliveryStatus `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	Stats     Stats                  `json:"stats" yaml:"stats"`
}

type File struct {
	models.FolderEntry `yaml:",inline"`
	Supported          bool `json:"supported" yaml:"supported"`
}

type Stats struct {
	TotalFiles       int     `json:"total_files" yaml:"total_files"`
	Summarized       int     `json:"summarized" yaml:"summarized"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}

func buildOutput(book *models.SummaryBook) FinalOutput {
	out := FinalOutput{
		FolderID:  book.FolderID,
		Summaries: book.Records(),
	}
	for _, e := range book.Entries {
		out.Files = append(out.Files, File{FolderEntry: e, Supported: walker.Supported(e)})
	}
	out.Stats.TotalFiles = len(book.Entries)
	out.Stats.Summarized = len(book.Order)
	return out
}

func textReport(out FinalOutput) string {
	var sb strings.Builder
	sb.WriteString("--- Files ---\n")
	for _, f := range out.Files {
		mark := " "
		if f.Supported {
			mark = "*"
		}
		sb.WriteString(mark + " " + f.Path + " [" + f.ID + "]\n")
	}
	for _, rec := range out.Summaries {
		sb.WriteString("\n--- " + rec.Path + " ---\n")
		sb.WriteString(rec.SummaryText)
		sb.WriteString("\n")
	}
	if out.Delivery != nil {
		sb.WriteString("\n" + out.Delivery.Message)
	}
	return sb.String()
}
