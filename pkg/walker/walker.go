// Package walker lists a Drive folder tree and batch-summarizes the files in
// it, then delivers one or all of the stored summaries.
package walker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/logger"
)

// Separator sits between blocks of a send-all digest.
var Separator = "\n" + strings.Repeat("-", 40) + "\n"

var errEmptyBook = errors.New("no summaries to send")

var supportedMIME = map[string]struct{}{
	models.MIMEGoogleDoc:    {},
	models.MIMEGoogleSheet:  {},
	models.MIMEGoogleSlides: {},
	models.MIMEPDF:          {},
	models.MIMEDocx:         {},
	models.MIMEXlsx:         {},
	models.MIMEPptx:         {},
	models.MIMECSV:          {},
}

// Lister returns the direct children of a folder. *fetcher.Fetcher
// implements it.
type Lister interface {
	ListChildren(ctx context.Context, folderID string) ([]models.FolderEntry, error)
}

type Extractor interface {
	Extract(ctx context.Context, format models.SourceFormat, id string) models.TextResult
}

type Summarizer interface {
	Summarize(ctx context.Context, format models.SourceFormat, text string) models.TextResult
}

type Deliverer interface {
	Send(ctx context.Context, msg models.Message) models.DeliveryStatus
}

type Walker struct {
	lister     Lister
	extractor  Extractor
	summarizer Summarizer
	deliverer  Deliverer
	subject    string
	log        *zap.Logger
}

func New(lister Lister, ext Extractor, sum Summarizer, del Deliverer, subject string, l *zap.Logger) *Walker {
	return &Walker{
		lister:     lister,
		extractor:  ext,
		summarizer: sum,
		deliverer:  del,
		subject:    subject,
		log:        logger.OrNop(l),
	}
}

// Supported reports whether entry's content type can be summarized.
func Supported(entry models.FolderEntry) bool {
	_, ok := supportedMIME[entry.MIMEType]
	return ok
}

// ListRecursive returns every non-folder entry below folderID in pre-order:
// a subfolder's files directly follow the files listed before it. Drive
// shortcuts are not folders and are not followed.
func (w *Walker) ListRecursive(ctx context.Context, folderID, prefix string) ([]models.FolderEntry, error) {
	children, err := w.lister.ListChildren(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var out []models.FolderEntry
	for _, child := range children {
		path := child.Name
		if prefix != "" {
			path = prefix + "/" + child.Name
		}

		if child.MIMEType == models.MIMEGoogleFolder {
			sub, err := w.ListRecursive(ctx, child.ID, path)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}

		child.Path = path
		out = append(out, child)
	}
	return out, nil
}

// Browse lists the tree under folderID and summarizes each supported file
// in traversal order.
func (w *Walker) Browse(ctx context.Context, folderID string) (*models.SummaryBook, error) {
	entries, err := w.ListRecursive(ctx, folderID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	book := models.NewSummaryBook(folderID)
	book.Entries = entries

	for _, entry := range entries {
		if !Supported(entry) {
			w.log.Debug("skipping unsupported file",
				zap.String("path", entry.Path),
				zap.String("mime_type", entry.MIMEType))
			continue
		}
		if err := ctx.Err(); err != nil {
			return book, err
		}

		format := models.FormatFromMIME(entry.MIMEType)
		text := w.extractor.Extract(ctx, format, entry.ID)
		summary := w.summarizer.Summarize(ctx, format, text.Render())

		book.Add(models.SummaryRecord{
			ID:          entry.ID,
			Title:       entry.Name,
			SummaryText: summary.Render(),
			MIMEType:    entry.MIMEType,
			Path:        entry.Path,
		})
		w.log.Info("summarized file",
			zap.String("path", entry.Path),
			zap.Bool("extract_failed", text.Failed()),
			zap.Bool("summary_failed", summary.Failed()))
	}
	return book, nil
}

func block(rec models.SummaryRecord) string {
	return rec.Title + "\n\n" + rec.SummaryText
}

// DigestBody joins every stored summary with Separator.
func DigestBody(book *models.SummaryBook) string {
	records := book.Records()
	blocks := make([]string, len(records))
	for i, rec := range records {
		blocks[i] = block(rec)
	}
	return strings.Join(blocks, Separator)
}

// SendSelected delivers the summary stored under id. An id that was not
// summarized in book is an error.
func (w *Walker) SendSelected(ctx context.Context, book *models.SummaryBook, id, to string) (models.DeliveryStatus, error) {
	rec, ok := book.Summaries[id]
	if !ok {
		return models.DeliveryStatus{}, fmt.Errorf("no summary for file %q in folder %s", id, book.FolderID)
	}
	return w.deliverer.Send(ctx, models.Message{
		Subject: w.subject,
		Body:    block(rec),
		To:      to,
	}), nil
}

// SendAll delivers every stored summary as one message.
func (w *Walker) SendAll(ctx context.Context, book *models.SummaryBook, to string) models.DeliveryStatus {
	if len(book.Order) == 0 {
		derr := &models.DeliveryError{Channel: "digest", Err: errEmptyBook}
		return models.DeliveryStatus{OK: false, Message: derr.Error()}
	}
	return w.deliverer.Send(ctx, models.Message{
		Subject: w.subject,
		Body:    DigestBody(book),
		To:      to,
	})
}
