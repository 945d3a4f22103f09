package summarizer

import "github.com/dtnitsch/drive-digest/models"

// Family groups formats that share a prompt template.
type Family int

const (
	FamilyGeneric Family = iota
	FamilyDocument
	FamilyTabular
	FamilyPresentation
	FamilyPDF
)

func (f Family) String() string {
	switch f {
	case FamilyDocument:
		return "document"
	case FamilyTabular:
		return "tabular"
	case FamilyPresentation:
		return "presentation"
	case FamilyPDF:
		return "pdf"
	default:
		return "generic"
	}
}

func FamilyOf(format models.SourceFormat) Family {
	switch format {
	case models.FormatDocument, models.FormatWordDoc:
		return FamilyDocument
	case models.FormatSpreadsheet, models.FormatExcelBinary, models.FormatCSV:
		return FamilyTabular
	case models.FormatPresentation, models.FormatPowerpointBinary:
		return FamilyPresentation
	case models.FormatPDF:
		return FamilyPDF
	default:
		return FamilyGeneric
	}
}

var instructions = map[Family]string{
	FamilyDocument:     "Summarize the following document. Highlight the main points and action items.",
	FamilyTabular:      "Summarize the following spreadsheet data. Describe the columns, key figures and trends.",
	FamilyPresentation: "Summarize the following presentation. Give the main topic of each slide and the overall message.",
	FamilyPDF:          "Summarize the following PDF document. Capture its purpose, key findings and conclusions.",
	FamilyGeneric:      "Summarize the following content concisely.",
}

// Instruction returns the template opening line for format.
func Instruction(format models.SourceFormat) string {
	return instructions[FamilyOf(format)]
}
