package models

import (
	"fmt"
	"strings"
)

// LinkParseError means no known link shape yielded a source id.
type LinkParseError struct {
	Link string
}

func (e *LinkParseError) Error() string {
	return fmt.Sprintf("could not extract a file ID from link %q", e.Link)
}

// ExtractionError is a failed fetch or parse for one format. It is carried
// inside a TextResult, never returned up the stack.
type ExtractionError struct {
	Label string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("Error reading %s: %v", e.Label, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SummarizationError is a failed LLM call, carried inside a TextResult.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("Error generating summary: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// DeliveryError is a transport or auth failure while sending mail.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("Error sending email: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// MissingConfigurationError lists required settings that are absent. It is
// the only fatal error class.
type MissingConfigurationError struct {
	Keys []string
}

func (e *MissingConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}
