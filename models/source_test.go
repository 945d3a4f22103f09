package models

import (
	"errors"
	"testing"
)

func TestExtractIDFromLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"document edit link", "https://docs.google.com/document/d/ABC123/edit", "ABC123"},
		{"open id link", "https://drive.google.com/open?id=XYZ789", "XYZ789"},
		{"folder link", "https://drive.google.com/drive/folders/FOLDER1", "FOLDER1"},
		{"id after other params", "https://drive.google.com/uc?export=download&id=Q_w-1", "Q_w-1"},
		{"d pattern wins over id", "https://docs.google.com/spreadsheets/d/SHEET9/edit?id=OTHER", "SHEET9"},
		{"unmatched", "https://example.com/nothing/here", ""},
		{"empty", "", ""},
		{"bare d segment", "https://docs.google.com/document/d/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractIDFromLink(tt.link); got != tt.want {
				t.Errorf("ExtractIDFromLink(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}

func TestParseLink(t *testing.T) {
	ref, err := ParseLink("https://docs.google.com/presentation/d/PRES1/edit#slide=id.p", FormatPresentation)
	if err != nil {
		t.Fatalf("ParseLink() error = %v", err)
	}
	if ref.ExternalID != "PRES1" || ref.Format != FormatPresentation {
		t.Errorf("ParseLink() = %+v, want PRES1/Presentation", ref)
	}

	_, err = ParseLink("not a link", FormatDocument)
	var linkErr *LinkParseError
	if !errors.As(err, &linkErr) {
		t.Fatalf("ParseLink() error = %v, want *LinkParseError", err)
	}
	if linkErr.Link != "not a link" {
		t.Errorf("LinkParseError.Link = %q", linkErr.Link)
	}
}
