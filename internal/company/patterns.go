package company

import (
	"regexp"
	"strings"
	"unicode"
)

// pattern is one entry in the ordered extraction library. When
// suffixGroup is zero the canonical suffix comes from the pattern
// itself; otherwise it is inferred from the captured suffix token.
type pattern struct {
	name        string
	re          *regexp.Regexp
	confidence  int
	suffix      string
	suffixGroup int
}

// entitySuffixAlt matches any recognized entity suffix token, dotted
// or not.
const entitySuffixAlt = `(L\.?L\.?C\.?|P\.?L\.?L\.?C\.?|Inc\.?|Corp(?:oration)?\.?|Company|Co\.|Ltd\.?|L\.?L\.?P\.?)`

// genericSuffixRe matches one to six capitalized words immediately
// followed by an entity suffix token. Low precision, low confidence.
var genericSuffixRe = regexp.MustCompile(
	`\b([A-Z][A-Za-z0-9'.\-]*(?:[\s,&]+[A-Z][A-Za-z0-9'.\-]*){0,5}?)[\s,]+` + entitySuffixAlt + `(?:[^A-Za-z]|$)`)

// enhancedPatterns is the full library: high-specificity patterns
// anchored to known filing phraseology first, generic suffix matching
// last.
var enhancedPatterns = []pattern{
	{
		name: "llc_name_clause",
		re: regexp.MustCompile(
			`(?i)(?:the\s+)?name\s+of\s+the\s+(?:limited\s+liability\s+company|l\.?l\.?c\.?)\s+(?:is|shall\s+be)[:\s]+"?([A-Za-z][^\n".]{1,79}?)"?\s*(?:[.\n]|$)`),
		confidence: 95,
		suffix:     "LLC",
	},
	{
		name: "llc_name_clause_fuzzy",
		re: regexp.MustCompile(
			fuzzy("name") + `\s+` + fuzzy("of") + `\s+` + fuzzy("the") + `\s+` +
				fuzzy("limited") + `\s+` + fuzzy("liability") + `\s+` + fuzzy("company") +
				`[^A-Za-z\n]{0,3}` + fuzzy("is") + `[:\s]+([A-Za-z][^\n]{1,79}?)(?:[.\n]|$)`),
		confidence: 85,
		suffix:     "LLC",
	},
	{
		name: "articles_of_organization",
		re: regexp.MustCompile(
			`(?i)articles\s+of\s+organization\s+(?:of|for)[:\s]+"?([A-Za-z][^\n".]{2,79})`),
		confidence: 85,
		suffix:     "LLC",
	},
	{
		name: "certificate_of_formation",
		re: regexp.MustCompile(
			`(?i)certificate\s+of\s+formation\s+(?:of|for)[:\s]+"?([A-Za-z][^\n".]{2,79})`),
		confidence: 80,
		suffix:     "LLC",
	},
	{
		name: "known_as_clause",
		re: regexp.MustCompile(
			`(?i)(?:company|entity|corporation)\s+(?:shall\s+be\s+)?(?:known|named)\s+as[:\s]+"?([A-Za-z][^\n".]{2,79})`),
		confidence: 75,
	},
	{
		// Law-firm header convention: "Porvin, Burnstein & Garelik, PLLC".
		name: "firm_header",
		re: regexp.MustCompile(
			`\b([A-Z][A-Za-z'.\-]+(?:\s*(?:,|&|and)\s*[A-Z][A-Za-z'.\-]+){1,4})\s*,?\s+(P\.?L\.?L\.?C\.?|L\.?L\.?P\.?)\b`),
		confidence:  70,
		suffixGroup: 2,
	},
	{
		name:        "generic_suffix",
		re:          genericSuffixRe,
		confidence:  45,
		suffixGroup: 2,
	},
}

// fuzzySuffixAlt tolerates up to two noise characters inside an entity
// suffix token, catching "L.L,C" or "I/nc" style OCR damage the strict
// alternation misses.
var fuzzySuffixAlt = `(` + fuzzy("llc") + `|` + fuzzy("pllc") + `|` + fuzzy("inc") + `|` +
	fuzzy("corp") + `|` + fuzzy("ltd") + `|` + fuzzy("llp") + `)`

// standardSuffixRe is the last-resort pattern: a capitalized word chain
// followed by a noise-damaged suffix token.
var standardSuffixRe = regexp.MustCompile(
	`\b([A-Z][A-Za-z0-9'.\-]*(?:[\s,&]+[A-Z][A-Za-z0-9'.\-]*){0,5}?)[\s,]+` + fuzzySuffixAlt + `(?:[^A-Za-z]|$)`)

// standardPatterns is the fallback set used when the enhanced library
// finds nothing.
var standardPatterns = []pattern{
	{
		name:        "standard_suffix",
		re:          standardSuffixRe,
		confidence:  40,
		suffixGroup: 2,
	},
}

// fuzzy builds a character-class-per-letter pattern that tolerates up
// to two non-letter noise characters between the expected letters, so
// phraseology anchors survive OCR recognition errors.
func fuzzy(word string) string {
	var b strings.Builder
	for i, r := range word {
		if i > 0 {
			b.WriteString(`[^A-Za-z\n]{0,2}`)
		}
		b.WriteByte('[')
		b.WriteRune(unicode.ToUpper(r))
		b.WriteRune(unicode.ToLower(r))
		b.WriteByte(']')
	}
	return b.String()
}

// canonicalSuffix maps a matched suffix token to its canonical form.
func canonicalSuffix(token string) string {
	key := strings.ToLower(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, token))
	switch key {
	case "llc":
		return "LLC"
	case "pllc":
		return "PLLC"
	case "inc":
		return "Inc."
	case "corp", "corporation":
		return "Corp."
	case "company", "co":
		return "Company"
	case "ltd":
		return "Ltd."
	case "llp":
		return "LLP"
	}
	return ""
}

// denyTerms are document-structure words that disqualify a candidate.
// They cover filing boilerplate and artifacts of raw PDF scraping.
var denyTerms = []string{
	"article",
	"certificate",
	"department",
	"secretary of state",
	"the name",
	"operating agreement",
	"stream",
	"endobj",
	"filter",
	"xref",
	"fontfile",
}

func denied(name string) bool {
	lower := strings.ToLower(name)
	for _, t := range denyTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
