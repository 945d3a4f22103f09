package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/slides/v1"

	"github.com/dtnitsch/drive-digest/models"
)

type fakeSource struct {
	doc     *docs.Document
	values  *sheets.ValueRange
	pres    *slides.Presentation
	files   map[string][]byte
	err     error
	lastRng string
}

func (f *fakeSource) Document(ctx context.Context, id string) (*docs.Document, error) {
	return f.doc, f.err
}

func (f *fakeSource) SheetValues(ctx context.Context, id, rng string) (*sheets.ValueRange, error) {
	f.lastRng = rng
	return f.values, f.err
}

func (f *fakeSource) Presentation(ctx context.Context, id string) (*slides.Presentation, error) {
	return f.pres, f.err
}

func (f *fakeSource) Download(ctx context.Context, id string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.files[id]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return data, nil
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func textRunDoc(runs ...string) *docs.Document {
	var elems []*docs.ParagraphElement
	for _, r := range runs {
		elems = append(elems, &docs.ParagraphElement{TextRun: &docs.TextRun{Content: r}})
	}
	return &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
		{Paragraph: &docs.Paragraph{Elements: elems}},
		{SectionBreak: &docs.SectionBreak{}},
	}}}
}

func TestExtract_Document(t *testing.T) {
	e := New(&fakeSource{doc: textRunDoc("Hello ", "world")})
	res := e.Extract(context.Background(), models.FormatDocument, "DOC1")
	if res.Failed() || res.Text != "Hello world" {
		t.Fatalf("Extract() = %+v", res)
	}
}

func TestExtract_Spreadsheet(t *testing.T) {
	src := &fakeSource{values: &sheets.ValueRange{Values: [][]interface{}{
		{"name", "qty"},
		{"apples", float64(3)},
	}}}
	res := New(src).Extract(context.Background(), models.FormatSpreadsheet, "S1")
	if want := "name\tqty\napples\t3\n"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if src.lastRng != DefaultSheetRange {
		t.Errorf("range = %q", src.lastRng)
	}

	New(src, WithSheetRange("B2:C3")).Extract(context.Background(), models.FormatSpreadsheet, "S1")
	if src.lastRng != "B2:C3" {
		t.Errorf("range override = %q", src.lastRng)
	}
}

func TestExtract_Presentation(t *testing.T) {
	shape := func(runs ...string) *slides.PageElement {
		var tes []*slides.TextElement
		for _, r := range runs {
			tes = append(tes, &slides.TextElement{TextRun: &slides.TextRun{Content: r}})
		}
		return &slides.PageElement{Shape: &slides.Shape{Text: &slides.TextContent{TextElements: tes}}}
	}
	src := &fakeSource{pres: &slides.Presentation{Slides: []*slides.Page{
		{PageElements: []*slides.PageElement{shape("Title"), {Image: &slides.Image{}}}},
		{PageElements: []*slides.PageElement{shape("Body")}},
	}}}
	res := New(src).Extract(context.Background(), models.FormatPresentation, "P1")
	if res.Text != "Title\nBody" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestExtract_FailuresBecomeText(t *testing.T) {
	src := &fakeSource{err: errors.New("403 forbidden")}
	tests := []struct {
		format models.SourceFormat
		want   string
	}{
		{models.FormatDocument, "Error reading Google Doc: 403 forbidden"},
		{models.FormatSpreadsheet, "Error reading Google Sheet: 403 forbidden"},
		{models.FormatPresentation, "Error reading Google Slides: 403 forbidden"},
		{models.FormatPDF, "Error reading PDF: 403 forbidden"},
		{models.FormatWordDoc, "Error reading Word document: 403 forbidden"},
		{models.FormatExcelBinary, "Error reading Excel file: 403 forbidden"},
		{models.FormatPowerpointBinary, "Error reading PowerPoint file: 403 forbidden"},
		{models.FormatCSV, "Error reading CSV file: 403 forbidden"},
	}
	e := New(src)
	for _, tt := range tests {
		res := e.Extract(context.Background(), tt.format, "X")
		if !res.Failed() || res.Render() != tt.want {
			t.Errorf("Extract(%v) = %q, want %q", tt.format, res.Render(), tt.want)
		}
		var extErr *models.ExtractionError
		if !errors.As(res.Err, &extErr) {
			t.Errorf("Extract(%v) error type = %T", tt.format, res.Err)
		}
	}
}

func TestExtract_Folder(t *testing.T) {
	res := New(&fakeSource{}).Extract(context.Background(), models.FormatFolder, "F")
	if !strings.HasPrefix(res.Render(), "Error reading folder: ") {
		t.Errorf("Render() = %q", res.Render())
	}
	res = New(&fakeSource{}).Extract(context.Background(), models.FormatUnknown, "F")
	if !strings.Contains(res.Render(), "Error reading") {
		t.Errorf("unknown Render() = %q", res.Render())
	}
}

func TestExtract_InvalidPDF(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{"P": []byte("definitely not a pdf")}}
	res := New(src).Extract(context.Background(), models.FormatPDF, "P")
	if !res.Failed() || !strings.HasPrefix(res.Render(), "Error reading PDF: ") {
		t.Errorf("Render() = %q", res.Render())
	}
}

func TestExtract_PDFPages(t *testing.T) {
	data := buildPDF(t, "Alpha page", "Beta page")
	src := &fakeSource{files: map[string][]byte{"P": data}}

	res := New(src).Extract(context.Background(), models.FormatPDF, "P")
	if res.Failed() {
		t.Fatalf("Extract() error = %v", res.Err)
	}
	alpha := strings.Index(res.Text, "Alpha page")
	beta := strings.Index(res.Text, "Beta page")
	if alpha < 0 || beta < 0 || alpha > beta {
		t.Errorf("Text = %q, want both pages in order", res.Text)
	}
}

// buildPDF writes a minimal PDF with one Helvetica text line per page.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_Docx(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Quarterly</w:t></w:r><w:r><w:t xml:space="preserve"> report</w:t></w:r></w:p>
    <w:p><w:r><w:t>Revenue</w:t><w:tab/><w:t>up</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildZip(t, map[string]string{"word/document.xml": doc, "[Content_Types].xml": "<Types/>"})
	src := &fakeSource{files: map[string][]byte{"D": data}}

	res := New(src).Extract(context.Background(), models.FormatWordDoc, "D")
	if res.Failed() {
		t.Fatalf("Extract() error = %v", res.Err)
	}
	if want := "Quarterly report\nRevenue\tup"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestDocxText_MissingPart(t *testing.T) {
	data := buildZip(t, map[string]string{"other.xml": "<x/>"})
	if _, err := DocxText(data); err == nil {
		t.Error("DocxText() without document.xml should fail")
	}
}

func TestExtract_Pptx(t *testing.T) {
	slide := func(shapes ...string) string {
		var sb strings.Builder
		sb.WriteString(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree>`)
		for _, s := range shapes {
			sb.WriteString(`<p:sp><p:txBody>`)
			for _, para := range strings.Split(s, "|") {
				sb.WriteString(`<a:p><a:r><a:t>` + para + `</a:t></a:r></a:p>`)
			}
			sb.WriteString(`</p:txBody></p:sp>`)
		}
		sb.WriteString(`</p:spTree></p:cSld></p:sld>`)
		return sb.String()
	}
	data := buildZip(t, map[string]string{
		"ppt/slides/slide10.xml":           slide("Ten"),
		"ppt/slides/slide2.xml":            slide("Two|second line", " "),
		"ppt/slides/slide1.xml":            slide("One"),
		"ppt/slides/_rels/slide1.xml.rels": "<Relationships/>",
	})
	src := &fakeSource{files: map[string][]byte{"S": data}}

	res := New(src).Extract(context.Background(), models.FormatPowerpointBinary, "S")
	if res.Failed() {
		t.Fatalf("Extract() error = %v", res.Err)
	}
	if want := "One\nTwo\nsecond line\nTen"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestExtract_Xlsx(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "region")
	f.SetCellValue("Sheet1", "B1", "sales")
	f.SetCellValue("Sheet1", "A2", "north")
	f.SetCellValue("Sheet1", "C2", 42)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	src := &fakeSource{files: map[string][]byte{"X": buf.Bytes()}}
	res := New(src).Extract(context.Background(), models.FormatExcelBinary, "X")
	if res.Failed() {
		t.Fatalf("Extract() error = %v", res.Err)
	}
	if want := "region\tsales\nnorth\t\t42"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestCSVText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("a,b\n1,2\n"), "a, b\n1, 2"},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("x,y\n")...), "x, y"},
		{"ragged", []byte("a,b,c\n1\n"), "a, b, c\n1"},
		{"invalid utf8", []byte("caf\xe9,ok\n"), "caf�, ok"},
		{"lazy quotes", []byte("say \"hi\",2\n"), "say \"hi\", 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CSVText(tt.in)
			if err != nil {
				t.Fatalf("CSVText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CSVText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if Label(models.FormatFolder) != "folder" || Label(models.FormatCSV) != "CSV file" {
		t.Errorf("labels = %q, %q", Label(models.FormatFolder), Label(models.FormatCSV))
	}
}
