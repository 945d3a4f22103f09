package folder

import (
	"strings"
	"testing"

	"github.com/dtnitsch/drive-digest/models"
)

func TestBuildOutputAndText(t *testing.T) {
	book := models.NewSummaryBook("root")
	book.Entries = []models.FolderEntry{
		{ID: "f1", Name: "plan", MIMEType: models.MIMEGoogleDoc, Path: "plan"},
		{ID: "img", Name: "logo.png", MIMEType: "image/png", Path: "assets/logo.png"},
	}
	book.Add(models.SummaryRecord{ID: "f1", Title: "plan", SummaryText: "Ship it.", Path: "plan"})

	out := buildOutput(book)
	if out.Stats.TotalFiles != 2 || out.Stats.Summarized != 1 {
		t.Errorf("Stats = %+v", out.Stats)
	}
	if !out.Files[0].Supported || out.Files[1].Supported {
		t.Errorf("Files = %+v", out.Files)
	}

	out.Delivery = &models.DeliveryStatus{OK: true, Message: "Email sent successfully to a@b.com!"}
	text := textReport(out)
	for _, want := range []string{"* plan [f1]", "  assets/logo.png [img]", "--- plan ---\nShip it.", "Email sent successfully to a@b.com!"} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q:\n%s", want, text)
		}
	}
}
