package models

import (
	"fmt"
	"strings"
)

// SourceFormat is the declared content type of a referenced file. It decides
// both the extraction strategy and the prompt template.
type SourceFormat int

const (
	FormatUnknown SourceFormat = iota
	FormatDocument
	FormatSpreadsheet
	FormatPresentation
	FormatPDF
	FormatWordDoc
	FormatExcelBinary
	FormatPowerpointBinary
	FormatCSV
	FormatFolder
)

// Drive content types.
const (
	MIMEGoogleDoc    = "application/vnd.google-apps.document"
	MIMEGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MIMEGoogleSlides = "application/vnd.google-apps.presentation"
	MIMEGoogleFolder = "application/vnd.google-apps.folder"
	MIMEPDF          = "application/pdf"
	MIMEDocx         = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXlsx         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPptx         = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMECSV          = "text/csv"
)

var formatNames = map[SourceFormat]string{
	FormatUnknown:          "Unknown",
	FormatDocument:         "Document",
	FormatSpreadsheet:      "Spreadsheet",
	FormatPresentation:     "Presentation",
	FormatPDF:              "PDF",
	FormatWordDoc:          "WordDoc",
	FormatExcelBinary:      "ExcelBinary",
	FormatPowerpointBinary: "PowerpointBinary",
	FormatCSV:              "CSV",
	FormatFolder:           "Folder",
}

// formatAliases are the short names accepted on the command line.
var formatAliases = map[string]SourceFormat{
	"doc":    FormatDocument,
	"docs":   FormatDocument,
	"sheet":  FormatSpreadsheet,
	"sheets": FormatSpreadsheet,
	"slides": FormatPresentation,
	"pdf":    FormatPDF,
	"docx":   FormatWordDoc,
	"word":   FormatWordDoc,
	"xlsx":   FormatExcelBinary,
	"excel":  FormatExcelBinary,
	"pptx":   FormatPowerpointBinary,
	"csv":    FormatCSV,
	"folder": FormatFolder,
}

var mimeFormats = map[string]SourceFormat{
	MIMEGoogleDoc:    FormatDocument,
	MIMEGoogleSheet:  FormatSpreadsheet,
	MIMEGoogleSlides: FormatPresentation,
	MIMEPDF:          FormatPDF,
	MIMEDocx:         FormatWordDoc,
	MIMEXlsx:         FormatExcelBinary,
	MIMEPptx:         FormatPowerpointBinary,
	MIMECSV:          FormatCSV,
	MIMEGoogleFolder: FormatFolder,
}

func (f SourceFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SourceFormat(%d)", int(f))
}

// MarshalText lets the format appear by name in YAML and JSON reports.
func (f SourceFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseSourceFormat accepts a CLI alias ("doc", "xlsx", ...) or a canonical
// name ("Document", "ExcelBinary", ...), case-insensitively.
func ParseSourceFormat(s string) (SourceFormat, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	for f, name := range formatNames {
		if f != FormatUnknown && strings.ToLower(name) == key {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown source format %q", s)
}

// FormatFromMIME maps a Drive content type to its format. Unsupported types
// map to FormatUnknown.
func FormatFromMIME(mimeType string) SourceFormat {
	if f, ok := mimeFormats[mimeType]; ok {
		return f
	}
	return FormatUnknown
}

// Summarizable reports whether extraction is defined for the format.
func (f SourceFormat) Summarizable() bool {
	return f > FormatUnknown && f < FormatFolder
}

// FormatAliases lists the CLI names in a stable order for help text.
func FormatAliases() []string {
	return []string{"doc", "sheet", "slides", "pdf", "docx", "xlsx", "pptx", "csv", "folder"}
}
