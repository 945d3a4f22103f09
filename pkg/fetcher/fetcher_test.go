package fetcher

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func newTestFetcher(t *testing.T, h http.Handler) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	f, err := NewFetcher(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}
	return f
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func TestFetcher_Document(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/documents/DOC1" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, `{"documentId":"DOC1","body":{"content":[{"paragraph":{"elements":[{"textRun":{"content":"Hello world"}}]}}]}}`)
	}))

	doc, err := f.Document(context.Background(), "DOC1")
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if got := doc.Body.Content[0].Paragraph.Elements[0].TextRun.Content; got != "Hello world" {
		t.Errorf("text = %q", got)
	}

	if _, err := f.Document(context.Background(), "MISSING"); err == nil {
		t.Error("Document() for unknown id should fail")
	}
}

func TestFetcher_SheetValuesAndPresentation(t *testing.T) {
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/S1/values/"):
			writeJSON(w, `{"range":"Sheet1!A1:B2","values":[["a","b"],["1","2"]]}`)
		case r.URL.Path == "/v1/presentations/P1":
			writeJSON(w, `{"presentationId":"P1","slides":[{"objectId":"s1"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))

	vr, err := f.SheetValues(context.Background(), "S1", "A1:Z1000")
	if err != nil {
		t.Fatalf("SheetValues() error = %v", err)
	}
	if len(vr.Values) != 2 || vr.Values[1][1] != "2" {
		t.Errorf("values = %v", vr.Values)
	}

	p, err := f.Presentation(context.Background(), "P1")
	if err != nil {
		t.Fatalf("Presentation() error = %v", err)
	}
	if len(p.Slides) != 1 {
		t.Errorf("slides = %d", len(p.Slides))
	}
}

func TestFetcher_Download(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 200*1024)
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/F1" || r.URL.Query().Get("alt") != "media" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))

	data, err := f.Download(context.Background(), "F1")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Download() len = %d, want %d", len(data), len(payload))
	}

	f.SetMaxDownload(1024)
	if _, err := f.Download(context.Background(), "F1"); !errors.Is(err, errTooLarge) {
		t.Errorf("Download() over limit error = %v", err)
	}
}

func TestFetcher_ListChildrenPaginates(t *testing.T) {
	var queries []string
	f := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" {
			http.NotFound(w, r)
			return
		}
		queries = append(queries, r.URL.Query().Get("q"))
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, `{"nextPageToken":"p2","files":[{"id":"a","name":"A","mimeType":"application/pdf"}]}`)
			return
		}
		writeJSON(w, `{"files":[{"id":"b","name":"B","mimeType":"application/vnd.google-apps.folder"}]}`)
	}))

	entries, err := f.ListChildren(context.Background(), "ROOT")
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "a" || entries[1].Name != "B" {
		t.Errorf("entries = %+v", entries)
	}
	if len(queries) != 2 || queries[0] != "'ROOT' in parents and trashed = false" {
		t.Errorf("queries = %q", queries)
	}
}
