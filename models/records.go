package models

// TextResult is either extracted/summarized text or the error that replaced
// it. Downstream stages always consume Render().
type TextResult struct {
	Text string
	Err  error
}

// TextOK wraps successful text.
func TextOK(text string) TextResult { return TextResult{Text: text} }

// TextErr wraps a failure.
func TextErr(err error) TextResult { return TextResult{Err: err} }

// Failed reports whether the result carries an error.
func (r TextResult) Failed() bool { return r.Err != nil }

// Render returns the text, or the error description in its place.
func (r TextResult) Render() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}

// DeliveryStatus is the outcome of one send. Message keeps the human-readable
// text ("Email sent successfully to ...!" / "Error sending email: ...").
type DeliveryStatus struct {
	OK      bool   `json:"ok" yaml:"ok"`
	Message string `json:"message" yaml:"message"`
}

// Message is one subject/body/recipient triple.
type Message struct {
	Subject string
	Body    string
	To      string
}

// Request starts a pipeline run.
type Request struct {
	Format    SourceFormat
	SourceID  string
	Recipient string
}

// Fetched is the record after the fetch stage.
type Fetched struct {
	Request
	ExtractedText string
	ExtractFailed bool
}

// Summarized is the record after the summarize stage.
type Summarized struct {
	Fetched
	SummaryText   string
	SummaryFailed bool
}

// Delivered is the terminal pipeline record.
type Delivered struct {
	Summarized
	Status DeliveryStatus
}

// FolderEntry is one file found while walking a folder tree. Path is the
// slash-joined chain from the traversal root, ending with Name.
type FolderEntry struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	MIMEType string `json:"mime_type" yaml:"mime_type"`
	Path     string `json:"path" yaml:"path"`
}

// SummaryRecord is the stored extract+summarize result for one folder entry.
type SummaryRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	SummaryText string `json:"summary" yaml:"summary"`
	MIMEType    string `json:"mime_type" yaml:"mime_type"`
	Path        string `json:"path" yaml:"path"`
}

// SummaryBook holds one folder browse: every listed entry, and the summaries
// of the supported ones keyed by id with Order giving display order.
type SummaryBook struct {
	FolderID  string
	Entries   []FolderEntry
	Summaries map[string]SummaryRecord
	Order     []string
}

// NewSummaryBook returns an empty book for folderID.
func NewSummaryBook(folderID string) *SummaryBook {
	return &SummaryBook{
		FolderID:  folderID,
		Summaries: make(map[string]SummaryRecord),
	}
}

// Add stores rec, keeping first-insertion order for repeated ids.
func (b *SummaryBook) Add(rec SummaryRecord) {
	if _, ok := b.Summaries[rec.ID]; !ok {
		b.Order = append(b.Order, rec.ID)
	}
	b.Summaries[rec.ID] = rec
}

// Records returns the summaries in display order.
func (b *SummaryBook) Records() []SummaryRecord {
	out := make([]SummaryRecord, 0, len(b.Order))
	for _, id := range b.Order {
		out = append(out, b.Summaries[id])
	}
	return out
}
