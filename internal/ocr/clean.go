package ocr

import (
	"regexp"
	"strings"

	"github.com/mhollis/docname/internal/quality"
)

var (
	wsRe            = regexp.MustCompile(`\s+`)
	ocrJunkRe       = regexp.MustCompile(`[^\w\s.,;:!?\-()'"&]+`)
	sentenceSpaceRe = regexp.MustCompile(`([.!?;:,])([A-Za-z])`)
	camelSplitRe    = regexp.MustCompile(`([a-z])([A-Z])`)
)

// aggressiveCleanThreshold: below this readable ratio every character
// outside the allowed set is stripped before punctuation normalization.
const aggressiveCleanThreshold = 50

// Clean applies the deterministic post-OCR cleanup: collapse
// whitespace, strip garbage characters from heavily garbled output,
// normalize punctuation spacing, and split camelCase boundaries OCR
// tends to produce when it drops spaces.
func Clean(text string) string {
	text = strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}

	if quality.Analyze(text).ReadableRatio < aggressiveCleanThreshold {
		text = ocrJunkRe.ReplaceAllString(text, "")
		text = strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
	}

	text = sentenceSpaceRe.ReplaceAllString(text, "$1 $2")
	text = camelSplitRe.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}
