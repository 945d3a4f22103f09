package models

import "regexp"

// Link shapes tried in order; the first match wins.
var linkIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`),
}

// SourceReference identifies one Drive file together with its declared format.
type SourceReference struct {
	Format     SourceFormat `json:"format" yaml:"format"`
	ExternalID string       `json:"external_id" yaml:"external_id"`
}

// ExtractIDFromLink returns the file or folder id embedded in a Drive link, or
// "" when no known link shape matches.
func ExtractIDFromLink(link string) string {
	for _, re := range linkIDPatterns {
		if m := re.FindStringSubmatch(link); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// ParseLink builds a SourceReference from a pasted link.
func ParseLink(link string, format SourceFormat) (SourceReference, error) {
	id := ExtractIDFromLink(link)
	if id == "" {
		return SourceReference{}, &LinkParseError{Link: link}
	}
	return SourceReference{Format: format, ExternalID: id}, nil
}
