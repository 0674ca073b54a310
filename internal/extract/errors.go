package extract

import (
	"fmt"
	"strings"
)

// UnsupportedMediaTypeError means the declared type is not in the
// supported set. Fatal; there is nothing to retry.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type: %q (supported: pdf, docx, doc, png, jpeg)", e.MediaType)
}

// ExhaustedError means every text-extraction strategy failed the
// quality gate or errored. The message enumerates what was attempted
// and why each attempt failed, plus actionable remediation.
type ExhaustedError struct {
	MediaType string
	Attempts  []Attempt
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	b.WriteString("text extraction exhausted for ")
	b.WriteString(e.MediaType)
	b.WriteString(": ")
	for i, a := range e.Attempts {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(a.Strategy)
		b.WriteString(": ")
		if a.Reason != "" {
			b.WriteString(a.Reason)
		} else {
			b.WriteString("failed")
		}
	}
	b.WriteString(" (try rescanning at higher DPI, converting the document to PDF or DOCX, or configuring OCR credentials)")
	return b.String()
}
