// Package extractor turns a Drive-hosted file into plain text. Every failure
// comes back as data inside a models.TextResult.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/slides/v1"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/logger"
	"github.com/dtnitsch/drive-digest/pkg/metrics"
)

// DefaultSheetRange is the fixed window read from Google Sheets.
const DefaultSheetRange = "A1:Z1000"

// Source is the content API the extractor reads from. *fetcher.Fetcher
// implements it.
type Source interface {
	Document(ctx context.Context, id string) (*docs.Document, error)
	SheetValues(ctx context.Context, id, rng string) (*sheets.ValueRange, error)
	Presentation(ctx context.Context, id string) (*slides.Presentation, error)
	Download(ctx context.Context, id string) ([]byte, error)
}

var errFolder = errors.New("folders have no text content")

type Extractor struct {
	src        Source
	log        *zap.Logger
	rec        *metrics.Recorder
	sheetRange string
}

type Option func(*Extractor)

func WithLogger(l *zap.Logger) Option { return func(e *Extractor) { e.log = logger.OrNop(l) } }

func WithRecorder(r *metrics.Recorder) Option { return func(e *Extractor) { e.rec = r } }

// WithSheetRange overrides DefaultSheetRange. Empty values are ignored.
func WithSheetRange(rng string) Option {
	return func(e *Extractor) {
		if rng != "" {
			e.sheetRange = rng
		}
	}
}

func New(src Source, opts ...Option) *Extractor {
	e := &Extractor{
		src:        src,
		log:        zap.NewNop(),
		sheetRange: DefaultSheetRange,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Label is the human name used in "Error reading <label>" messages.
func Label(f models.SourceFormat) string {
	switch f {
	case models.FormatDocument:
		return "Google Doc"
	case models.FormatSpreadsheet:
		return "Google Sheet"
	case models.FormatPresentation:
		return "Google Slides"
	case models.FormatPDF:
		return "PDF"
	case models.FormatWordDoc:
		return "Word document"
	case models.FormatExcelBinary:
		return "Excel file"
	case models.FormatPowerpointBinary:
		return "PowerPoint file"
	case models.FormatCSV:
		return "CSV file"
	default:
		return "folder"
	}
}

// Extract dispatches on format. It never returns a Go error: a failed read
// yields a TextResult whose Render starts with "Error reading".
func (e *Extractor) Extract(ctx context.Context, format models.SourceFormat, id string) models.TextResult {
	start := time.Now()
	text, err := e.extract(ctx, format, id)
	e.rec.CountExtraction(format.String(), err == nil)

	if err != nil {
		e.log.Warn("extraction failed",
			zap.String("format", format.String()),
			zap.String("id", id),
			zap.Error(err))
		return models.TextErr(&models.ExtractionError{Label: Label(format), Err: err})
	}

	e.log.Debug("extracted text",
		zap.String("format", format.String()),
		zap.String("id", id),
		zap.Int("chars", len(text)),
		zap.Duration("took", time.Since(start)))
	return models.TextOK(text)
}

func (e *Extractor) extract(ctx context.Context, format models.SourceFormat, id string) (string, error) {
	switch format {
	case models.FormatDocument:
		doc, err := e.src.Document(ctx, id)
		if err != nil {
			return "", err
		}
		return DocumentText(doc), nil

	case models.FormatSpreadsheet:
		vr, err := e.src.SheetValues(ctx, id, e.sheetRange)
		if err != nil {
			return "", err
		}
		return SheetText(vr), nil

	case models.FormatPresentation:
		p, err := e.src.Presentation(ctx, id)
		if err != nil {
			return "", err
		}
		return PresentationText(p), nil

	case models.FormatPDF, models.FormatWordDoc, models.FormatExcelBinary,
		models.FormatPowerpointBinary, models.FormatCSV:
		data, err := e.src.Download(ctx, id)
		if err != nil {
			return "", err
		}
		e.log.Info("downloaded file",
			zap.String("format", format.String()),
			zap.String("id", id),
			zap.Int("bytes", len(data)))
		return parseBinary(ctx, format, data)

	case models.FormatFolder:
		return "", errFolder

	default:
		return "", fmt.Errorf("unsupported format %v", format)
	}
}

func parseBinary(ctx context.Context, format models.SourceFormat, data []byte) (string, error) {
	switch format {
	case models.FormatPDF:
		return PDFText(ctx, data)
	case models.FormatWordDoc:
		return DocxText(data)
	case models.FormatExcelBinary:
		return XLSXText(data)
	case models.FormatPowerpointBinary:
		return PPTXText(data)
	case models.FormatCSV:
		return CSVText(data)
	}
	return "", fmt.Errorf("unsupported format %v", format)
}
