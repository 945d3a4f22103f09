package extractor

import (
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/slides/v1"
)

// DocumentText concatenates every text run of the document body.
func DocumentText(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	var sb strings.Builder
	for _, el := range doc.Body.Content {
		if el == nil || el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe != nil && pe.TextRun != nil {
				sb.WriteString(pe.TextRun.Content)
			}
		}
	}
	return sb.String()
}

// SheetText renders values tab-separated, one line per row.
func SheetText(vr *sheets.ValueRange) string {
	if vr == nil {
		return ""
	}
	var sb strings.Builder
	for _, row := range vr.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PresentationText joins every shape text run across all slides with "\n".
func PresentationText(p *slides.Presentation) string {
	if p == nil {
		return ""
	}
	var runs []string
	for _, slide := range p.Slides {
		if slide == nil {
			continue
		}
		for _, pe := range slide.PageElements {
			if pe == nil || pe.Shape == nil || pe.Shape.Text == nil {
				continue
			}
			for _, te := range pe.Shape.Text.TextElements {
				if te != nil && te.TextRun != nil {
					runs = append(runs, te.TextRun.Content)
				}
			}
		}
	}
	return strings.Join(runs, "\n")
}
