package summarizer

import "github.com/pemistahl/lingua-go"

// LanguageDetector names the language of a text, or reports false when
// unsure.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// hintLanguages keeps the lingua models small; these cover the bulk of
// Workspace content.
var hintLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Polish,
	lingua.Japanese,
	lingua.Chinese,
}

type LinguaDetector struct {
	detector lingua.LanguageDetector
}

func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(hintLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build(),
	}
}

func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}
