// Package ocr issues text-recognition requests against a remote OCR
// service using multiple parameter profiles, with an image-annotation
// provider and a local Tesseract engine as fallbacks.
package ocr

import "github.com/mhollis/docname/internal/quality"

// Capabilities records which OCR providers are configured. It is built
// once at startup from config and injected wherever needed; there is no
// ambient global state.
type Capabilities struct {
	Remote   bool
	Annotate bool
	Local    bool
}

// Any reports whether at least one provider is available.
func (c Capabilities) Any() bool {
	return c.Remote || c.Annotate || c.Local
}

// Profile is one concrete remote-OCR parameter configuration. Profiles
// are tried in fixed priority order; a profile is never re-issued.
type Profile struct {
	Name              string
	Engine            int
	Scale             bool
	Table             bool
	DetectOrientation bool
}

// DefaultProfiles is the fixed priority order. Engine 2 handles scanned
// filings better; engine 1 is the fallback for rotated or tabular pages.
var DefaultProfiles = []Profile{
	{Name: "engine2_scaled", Engine: 2, Scale: true},
	{Name: "engine1_scaled", Engine: 1, Scale: true},
	{Name: "engine2_table", Engine: 2, Scale: true, Table: true},
	{Name: "engine1_orient", Engine: 1, DetectOrientation: true},
}

// PageResult is per-page quality diagnostics retained alongside the
// concatenated text.
type PageResult struct {
	Page    int            `json:"page"`
	Chars   int            `json:"chars"`
	Quality quality.Report `json:"quality"`
}

// RunResult is the output of a successful recognition run.
type RunResult struct {
	Text    string
	Source  string // profile or fallback provider that produced the text
	Quality quality.Report
	Pages   []PageResult
}

// pageSeparator joins per-page text before quality is computed on the
// concatenated whole.
const pageSeparator = "\n\f\n"
