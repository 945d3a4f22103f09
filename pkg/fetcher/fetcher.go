// Package fetcher wraps the Google Workspace REST services the digest reads
// from: Docs, Sheets, Slides and Drive.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/slides/v1"

	"github.com/dtnitsch/drive-digest/models"
)

// DefaultMaxDownload caps binary downloads from Drive.
const DefaultMaxDownload int64 = 64 << 20

const listFields = "nextPageToken, files(id, name, mimeType)"

type Fetcher struct {
	docs   *docs.Service
	sheets *sheets.Service
	slides *slides.Service
	drive  *drive.Service

	maxDownload int64
}

// NewFetcher builds one client per Google API sharing the same options,
// typically option.WithTokenSource.
func NewFetcher(ctx context.Context, opts ...option.ClientOption) (*Fetcher, error) {
	docsSvc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs client: %w", err)
	}
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	slidesSvc, err := slides.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create slides client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &Fetcher{
		docs:        docsSvc,
		sheets:      sheetsSvc,
		slides:      slidesSvc,
		drive:       driveSvc,
		maxDownload: DefaultMaxDownload,
	}, nil
}

// SetMaxDownload changes the download cap. Non-positive values are ignored.
func (f *Fetcher) SetMaxDownload(n int64) {
	if n > 0 {
		f.maxDownload = n
	}
}

func (f *Fetcher) Document(ctx context.Context, id string) (*docs.Document, error) {
	doc, err := f.docs.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return doc, nil
}

func (f *Fetcher) SheetValues(ctx context.Context, id, rng string) (*sheets.ValueRange, error) {
	vr, err := f.sheets.Spreadsheets.Values.Get(id, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values %s!%s: %w", id, rng, err)
	}
	return vr, nil
}

func (f *Fetcher) Presentation(ctx context.Context, id string) (*slides.Presentation, error) {
	p, err := f.slides.Presentations.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get presentation %s: %w", id, err)
	}
	return p, nil
}

// Download returns the raw bytes of a non-native Drive file.
func (f *Fetcher) Download(ctx context.Context, id string) ([]byte, error) {
	resp, err := f.drive.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s, status code: %d", id, resp.StatusCode)
	}

	data, err := readAllLimit(resp.Body, f.maxDownload)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return data, nil
}

// ListChildren returns the non-trashed direct children of a folder,
// following every result page.
func (f *Fetcher) ListChildren(ctx context.Context, folderID string) ([]models.FolderEntry, error) {
	var out []models.FolderEntry
	pageToken := ""
	for {
		call := f.drive.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
			Fields(listFields).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
		}
		for _, file := range res.Files {
			out = append(out, models.FolderEntry{
				ID:       file.Id,
				Name:     file.Name,
				MIMEType: file.MimeType,
			})
		}
		if res.NextPageToken == "" {
			return out, nil
		}
		pageToken = res.NextPageToken
	}
}

const downloadChunk = 1 << 20

var errTooLarge = errors.New("file exceeds download limit")

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	buf := make([]byte, 0, downloadChunk)
	tmp := make([]byte, downloadChunk)
	var total int64
	for {
		n, err := r.Read(tmp)
		if n > 0 {
			total += int64(n)
			if total > limit {
				return nil, errTooLarge
			}
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return nil, err
		}
	}
}
