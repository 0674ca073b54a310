// Package pipeline composes text extraction and company-name
// extraction into one document-processing operation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhollis/docname/internal/company"
	"github.com/mhollis/docname/internal/extract"
	"github.com/mhollis/docname/internal/quality"
)

// Outcome is the successful result for one document: ranked name
// candidates plus the source text's length, quality report, and the
// extraction audit trail.
type Outcome struct {
	Candidates []company.Candidate `json:"candidates"`
	TextLength int                 `json:"text_length"`
	Strategy   string              `json:"strategy"`
	Quality    quality.Report      `json:"quality"`
	Attempts   []extract.Attempt   `json:"attempts"`
}

// NoCandidatesError means text extraction succeeded but no pattern or
// fragment strategy produced a candidate. The excerpt lets a caller
// inspect what was recovered and adjust input.
type NoCandidatesError struct {
	Excerpt  string
	Quality  quality.Report
	Attempts []extract.Attempt
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no company name candidates found in extracted text (%d chars recovered, readable ratio %d%%)",
		e.Quality.TotalChars, e.Quality.ReadableRatio)
}

// excerptLimit caps the recovered-text excerpt carried in failure
// payloads.
const excerptLimit = 1000

// Pipeline is safe for concurrent use: every document's state is local
// to one Process call.
type Pipeline struct {
	extractor *extract.Extractor
	names     *company.Extractor
	log       *slog.Logger
}

func New(extractor *extract.Extractor, names *company.Extractor, log *slog.Logger) *Pipeline {
	return &Pipeline{extractor: extractor, names: names, log: log}
}

// Process converts a document into ranked company-name candidates.
// Failures carry full diagnostic context: *extract.UnsupportedMediaTypeError,
// *extract.ExhaustedError, or *NoCandidatesError.
func (p *Pipeline) Process(ctx context.Context, data []byte, mediaType string) (*Outcome, error) {
	res, err := p.extractor.Extract(ctx, data, mediaType)
	if err != nil {
		return nil, err
	}

	p.log.Info("text extracted",
		"strategy", res.Strategy,
		"chars", len(res.Text),
		"readable_ratio", res.Quality.ReadableRatio,
	)

	candidates := p.names.Extract(res.Text)
	if len(candidates) == 0 {
		return nil, &NoCandidatesError{
			Excerpt:  excerpt(res.Text),
			Quality:  res.Quality,
			Attempts: res.Attempts,
		}
	}

	return &Outcome{
		Candidates: candidates,
		TextLength: len(res.Text),
		Strategy:   res.Strategy,
		Quality:    res.Quality,
		Attempts:   res.Attempts,
	}, nil
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit]
}
