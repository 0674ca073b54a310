// Package extract converts an uploaded document into plain text by
// trying ordered fallback strategies: native structured parsing first,
// raw-container scraping next, OCR last.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mhollis/docname/internal/ocr"
	"github.com/mhollis/docname/internal/quality"
)

// Supported media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeDOC  = "application/msword"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// MediaTypeForFilename infers a supported media type from a file
// extension. Returns "" when the extension is not recognized.
func MediaTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MediaTypePDF
	case ".docx":
		return MediaTypeDOCX
	case ".doc":
		return MediaTypeDOC
	case ".png":
		return MediaTypePNG
	case ".jpg", ".jpeg":
		return MediaTypeJPEG
	}
	return ""
}

// Attempt records one fallback strategy tried for a document. The
// ordered list forms the audit trail returned with every outcome.
type Attempt struct {
	Strategy  string          `json:"strategy"`
	Succeeded bool            `json:"succeeded"`
	Chars     int             `json:"chars,omitempty"`
	Quality   *quality.Report `json:"quality,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Result is the text recovered from a document together with its
// quality report and the audit trail.
type Result struct {
	Text     string
	Strategy string
	Quality  quality.Report
	Attempts []Attempt
}

// Extractor runs the per-media-type strategy chain. ocrRunner may be
// nil when no OCR provider is configured.
type Extractor struct {
	ocrRunner *ocr.Runner
	gate      quality.Gate
	log       *slog.Logger
}

func NewExtractor(ocrRunner *ocr.Runner, log *slog.Logger) *Extractor {
	return &Extractor{
		ocrRunner: ocrRunner,
		gate:      quality.DefaultGate,
		log:       log,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, data []byte) (string, error)
}

func (e *Extractor) strategiesFor(mediaType string) ([]strategy, error) {
	switch mediaType {
	case MediaTypePDF:
		return []strategy{
			{"pdf_native", func(_ context.Context, data []byte) (string, error) { return nativePDFText(data) }},
			{"pdf_enhanced", func(_ context.Context, data []byte) (string, error) { return enhancedPDFText(data) }},
			{"raw_scrape", func(_ context.Context, data []byte) (string, error) { return scrapeRaw(data) }},
			{"ocr", e.runOCR(mediaType)},
		}, nil
	case MediaTypeDOCX:
		return []strategy{
			{"docx_native", func(_ context.Context, data []byte) (string, error) { return docxText(data) }},
			{"raw_scrape", func(_ context.Context, data []byte) (string, error) { return scrapeRaw(data) }},
		}, nil
	case MediaTypeDOC:
		return []strategy{
			{"doc_ascii", func(_ context.Context, data []byte) (string, error) { return docASCIIText(data) }},
			{"raw_scrape", func(_ context.Context, data []byte) (string, error) { return scrapeRaw(data) }},
		}, nil
	case MediaTypePNG, MediaTypeJPEG:
		return []strategy{
			{"ocr", e.runOCR(mediaType)},
		}, nil
	}
	return nil, &UnsupportedMediaTypeError{MediaType: mediaType}
}

func (e *Extractor) runOCR(mediaType string) func(ctx context.Context, data []byte) (string, error) {
	return func(ctx context.Context, data []byte) (string, error) {
		if e.ocrRunner == nil {
			return "", fmt.Errorf("no OCR providers configured")
		}
		res, err := e.ocrRunner.Recognize(ctx, data, mediaType)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}
}

// Extract tries each strategy in strict order and returns the first
// text that clears the quality gate. OCR output was already gated more
// strictly inside the runner; the outer gate is a formality for it.
func (e *Extractor) Extract(ctx context.Context, data []byte, mediaType string) (*Result, error) {
	strategies, err := e.strategiesFor(mediaType)
	if err != nil {
		return nil, err
	}

	attempts := make([]Attempt, 0, len(strategies))
	for _, s := range strategies {
		text, err := s.run(ctx, data)
		if err != nil {
			e.log.Warn("extraction strategy failed", "strategy", s.name, "error", err)
			attempts = append(attempts, Attempt{Strategy: s.name, Reason: err.Error()})
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		text = strings.TrimSpace(text)
		rep := quality.Analyze(text)
		attempt := Attempt{Strategy: s.name, Chars: len(text), Quality: &rep}
		if reason := rep.FailureReason(e.gate); reason != "" {
			e.log.Info("extraction strategy below quality gate", "strategy", s.name, "reason", reason)
			attempt.Reason = reason
			attempts = append(attempts, attempt)
			continue
		}

		attempt.Succeeded = true
		attempts = append(attempts, attempt)
		return &Result{Text: text, Strategy: s.name, Quality: rep, Attempts: attempts}, nil
	}

	return nil, &ExhaustedError{MediaType: mediaType, Attempts: attempts}
}
