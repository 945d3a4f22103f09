// Package summarizer builds a format-aware prompt and asks an LLM for a
// summary.
package summarizer

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/logger"
	"github.com/dtnitsch/drive-digest/pkg/metrics"
)

const (
	// MaxInputChars is the number of characters of source text sent to the
	// model.
	MaxInputChars = 4000
	// TruncationMarker follows input cut at MaxInputChars.
	TruncationMarker = "\n\n[...content truncated]"
)

// Generator produces a completion for a prompt. *llm.Gemini implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Summarizer struct {
	gen      Generator
	detector LanguageDetector
	log      *zap.Logger
	rec      *metrics.Recorder
}

type Option func(*Summarizer)

// WithLanguageDetector enables the reply-language hint.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(s *Summarizer) { s.detector = d }
}

func WithLogger(l *zap.Logger) Option { return func(s *Summarizer) { s.log = logger.OrNop(l) } }

func WithRecorder(r *metrics.Recorder) Option { return func(s *Summarizer) { s.rec = r } }

func New(gen Generator, opts ...Option) *Summarizer {
	s := &Summarizer{gen: gen, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Truncate cuts text to MaxInputChars runes and appends TruncationMarker.
// Shorter text is returned unchanged.
func Truncate(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= MaxInputChars {
		return text, false
	}
	n := 0
	for i := range text {
		if n == MaxInputChars {
			return text[:i] + TruncationMarker, true
		}
		n++
	}
	return text, false
}

// Prompt assembles the full model input for text of the given format.
func (s *Summarizer) Prompt(format models.SourceFormat, text string) string {
	body, _ := Truncate(text)

	var sb strings.Builder
	sb.WriteString(Instruction(format))
	if lang, ok := s.replyLanguage(body); ok {
		sb.WriteString("\nWrite the summary in ")
		sb.WriteString(lang)
		sb.WriteString(".")
	}
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n\nSummary:")
	return sb.String()
}

func (s *Summarizer) replyLanguage(text string) (string, bool) {
	if s.detector == nil {
		return "", false
	}
	lang, ok := s.detector.Detect(text)
	if !ok || lang == "" || strings.EqualFold(lang, "english") {
		return "", false
	}
	return lang, true
}

// Summarize makes exactly one model call. Failures are returned as data.
func (s *Summarizer) Summarize(ctx context.Context, format models.SourceFormat, text string) models.TextResult {
	start := time.Now()
	prompt := s.Prompt(format, text)

	summary, err := s.gen.Generate(ctx, prompt)
	s.rec.CountSummary(format.String(), err == nil)
	if err != nil {
		s.log.Warn("summary failed",
			zap.String("format", format.String()),
			zap.Error(err))
		return models.TextErr(&models.SummarizationError{Err: err})
	}

	s.log.Debug("summary generated",
		zap.String("format", format.String()),
		zap.String("family", FamilyOf(format).String()),
		zap.Int("prompt_chars", len(prompt)),
		zap.Duration("took", time.Since(start)))
	return models.TextOK(summary)
}
