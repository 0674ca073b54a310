// Package quality scores extracted text for OCR noise versus genuine prose.
package quality

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Report describes how much of a candidate text looks like readable prose.
// It is recomputed from scratch on every call and never persisted.
type Report struct {
	ReadableRatio  int     `json:"readable_ratio"`   // 0-100
	ValidWordCount int     `json:"valid_word_count"`
	GarbledRatio   float64 `json:"garbled_ratio"` // 0.0-1.0
	TotalWords     int     `json:"total_words"`
	AvgWordLength  float64 `json:"avg_word_length"`
	TotalChars     int     `json:"total_chars"`
}

// readablePunct is the punctuation counted as readable alongside
// letters, digits and whitespace.
const readablePunct = ".,;:!?-()&"

var wordRe = regexp.MustCompile(`[A-Za-z]{2,}`)

// Analyze computes a quality report for arbitrary text. It is a pure
// function: identical input always yields an identical report.
func Analyze(text string) Report {
	if len(text) == 0 {
		return Report{GarbledRatio: 1}
	}

	var total, readable, garbled int
	for _, r := range text {
		total++
		switch {
		case isLetter(r) || isDigit(r):
			readable++
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v':
			readable++
		case strings.ContainsRune(readablePunct, r):
			readable++
		default:
			// Word chars and whitespace were handled above; underscore
			// counts as a word char, everything else is garbage.
			if r != '_' {
				garbled++
			}
		}
	}

	words := wordRe.FindAllString(text, -1)
	valid := 0
	var lengthSum int
	for _, w := range words {
		lengthSum += len(w)
		if isValidWord(w) {
			valid++
		}
	}

	rep := Report{
		ReadableRatio:  int(math.Round(100 * float64(readable) / float64(total))),
		ValidWordCount: valid,
		GarbledRatio:   float64(garbled) / float64(total),
		TotalWords:     len(words),
		TotalChars:     total,
	}
	if len(words) > 0 {
		rep.AvgWordLength = float64(lengthSum) / float64(len(words))
	}
	return rep
}

// isValidWord reports whether a run of letters looks like a real word
// rather than OCR debris: sane length, at least one vowel for anything
// longer than three letters, and no long consonant pileups.
func isValidWord(w string) bool {
	n := len(w)
	if n < 2 || n > 20 {
		return false
	}
	vowels := 0
	run := 0
	for _, r := range strings.ToLower(w) {
		if strings.ContainsRune("aeiouy", r) {
			vowels++
			run = 0
			continue
		}
		run++
		if run >= 5 {
			return false
		}
	}
	if vowels == 0 && n > 3 {
		return false
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= 0x00C0 && r <= 0x024F)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Gate is the threshold set a candidate text must clear before being
// trusted by the extraction pipeline.
type Gate struct {
	MinReadableRatio int
	MinChars         int
	MinValidWords    int
}

// DefaultGate applies to native-parse and scrape output.
var DefaultGate = Gate{MinReadableRatio: 15, MinChars: 20, MinValidWords: 5}

// OCRGate is stricter because OCR output is the most failure-prone
// source and must be filtered harder before being trusted.
var OCRGate = Gate{MinReadableRatio: 20, MinChars: 20, MinValidWords: 5}

// Meets reports whether the text behind this report clears the gate.
func (r Report) Meets(g Gate) bool {
	return r.FailureReason(g) == ""
}

// FailureReason returns a human-readable explanation of why the text
// fails the gate, or "" when it passes.
func (r Report) FailureReason(g Gate) string {
	switch {
	case r.TotalChars < g.MinChars:
		return fmt.Sprintf("text too short (%d chars, minimum %d)", r.TotalChars, g.MinChars)
	case r.ReadableRatio < g.MinReadableRatio:
		return fmt.Sprintf("readable ratio %d%% below minimum %d%%", r.ReadableRatio, g.MinReadableRatio)
	case r.ValidWordCount < g.MinValidWords:
		return fmt.Sprintf("too few valid words (%d, minimum %d)", r.ValidWordCount, g.MinValidWords)
	}
	return ""
}
