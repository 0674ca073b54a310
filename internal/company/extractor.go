// Package company recovers legal entity names from extracted document
// text using an ordered library of regex patterns plus an optional
// gazetteer of known names for fragment matching against corrupted OCR
// output.
package company

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// Candidate is a proposed company name with a confidence score and
// provenance.
type Candidate struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"` // 0-100
	Pattern    string `json:"pattern"`
	Original   string `json:"original_match"`
	Context    string `json:"context"`
}

// Policy holds the tunable scoring knobs. The numbers are heuristics
// calibrated against a corpus of state filing documents, not sacred
// constants.
type Policy struct {
	MaxCandidates  int
	MinNameLen     int
	MaxNameLen     int
	RepeatBonus    int
	RepeatBonusCap int
	EarlyWindow    int
	EarlyBonus     int
	MidWindow      int
	MidBonus       int
	TypicalMinLen  int
	TypicalMaxLen  int
	TypicalBonus   int
	LongLen        int
	LongPenalty    int
}

// DefaultPolicy returns the scoring defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxCandidates:  5,
		MinNameLen:     3,
		MaxNameLen:     80,
		RepeatBonus:    3,
		RepeatBonusCap: 15,
		EarlyWindow:    200,
		EarlyBonus:     10,
		MidWindow:      500,
		MidBonus:       5,
		TypicalMinLen:  5,
		TypicalMaxLen:  30,
		TypicalBonus:   5,
		LongLen:        50,
		LongPenalty:    15,
	}
}

// Extractor runs the pattern and fragment strategies over cleaned text.
// A single Extractor is safe for concurrent use.
type Extractor struct {
	policy    Policy
	gazetteer []Target
	log       *slog.Logger
}

func NewExtractor(policy Policy, gazetteer []Target, log *slog.Logger) *Extractor {
	return &Extractor{policy: policy, gazetteer: gazetteer, log: log}
}

// Extract returns up to MaxCandidates deduplicated candidates sorted by
// confidence descending. The enhanced pattern library runs first; when
// it yields nothing the conservative suffix-only set is retried before
// giving up on the pattern strategy. Gazetteer fragment matching runs
// independently and its results are merged before ranking.
func (e *Extractor) Extract(text string) []Candidate {
	cands := e.runPatterns(text, enhancedPatterns)
	if len(cands) == 0 {
		cands = e.runPatterns(text, standardPatterns)
	}
	cands = append(cands, matchGazetteer(text, e.gazetteer)...)

	cands = dedupe(cands)
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].Name < cands[j].Name
	})
	if len(cands) > e.policy.MaxCandidates {
		cands = cands[:e.policy.MaxCandidates]
	}
	return cands
}

// match is one raw pattern hit before scoring.
type match struct {
	name     string
	original string
	position int
	count    int
	pattern  string
	base     int
}

func (e *Extractor) runPatterns(text string, patterns []pattern) []Candidate {
	byKey := make(map[string]*match)
	var order []string

	for _, p := range patterns {
		locs := p.re.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range locs {
			if loc[2] < 0 {
				continue
			}
			raw := text[loc[2]:loc[3]]
			name := cleanName(raw)
			if name == "" {
				continue
			}

			suffix := p.suffix
			if p.suffixGroup > 0 && len(loc) > 2*p.suffixGroup+1 && loc[2*p.suffixGroup] >= 0 {
				suffix = canonicalSuffix(text[loc[2*p.suffixGroup]:loc[2*p.suffixGroup+1]])
			}
			name = appendSuffix(name, suffix)

			if len(name) < e.policy.MinNameLen || len(name) > e.policy.MaxNameLen {
				continue
			}
			if denied(name) {
				continue
			}

			key := p.name + "\x00" + NormalizeName(name)
			if m, ok := byKey[key]; ok {
				m.count++
				if loc[0] < m.position {
					m.position = loc[0]
				}
				continue
			}
			byKey[key] = &match{
				name:     name,
				original: raw,
				position: loc[0],
				count:    1,
				pattern:  p.name,
				base:     p.confidence,
			}
			order = append(order, key)
		}
	}

	cands := make([]Candidate, 0, len(order))
	for _, key := range order {
		m := byKey[key]
		cands = append(cands, Candidate{
			Name:       m.name,
			Confidence: e.score(m),
			Pattern:    m.pattern,
			Original:   m.original,
			Context:    contextAround(text, m.position, len(m.original)),
		})
	}
	return cands
}

// score applies the confidence adjustments: repetition, position in the
// document, and name-length plausibility, clamped to [0,100].
func (e *Extractor) score(m *match) int {
	conf := m.base

	bonus := (m.count - 1) * e.policy.RepeatBonus
	if bonus > e.policy.RepeatBonusCap {
		bonus = e.policy.RepeatBonusCap
	}
	conf += bonus

	switch {
	case m.position < e.policy.EarlyWindow:
		conf += e.policy.EarlyBonus
	case m.position < e.policy.MidWindow:
		conf += e.policy.MidBonus
	}

	n := len(m.name)
	switch {
	case n >= e.policy.TypicalMinLen && n <= e.policy.TypicalMaxLen:
		conf += e.policy.TypicalBonus
	case n > e.policy.LongLen:
		conf -= e.policy.LongPenalty
	}

	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	return conf
}

var (
	nameJunkRe    = regexp.MustCompile(`[^A-Za-z0-9&',.\- ]+`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
	numericOnlyRe = regexp.MustCompile(`^[0-9]+$`)
)

// cleanName strips non-name punctuation, collapses whitespace, and
// drops stray single-letter and numeric tokens left behind by OCR.
func cleanName(s string) string {
	s = nameJunkRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	fields := strings.Fields(s)
	keep := fields[:0]
	for _, f := range fields {
		core := strings.Trim(f, ",.'-")
		if core == "" && f != "&" {
			continue
		}
		if len(core) == 1 && f != "&" {
			continue
		}
		if numericOnlyRe.MatchString(core) {
			continue
		}
		keep = append(keep, f)
	}
	return strings.Trim(strings.Join(keep, " "), " ,.")
}

// appendSuffix re-appends the canonical entity suffix unless the name
// already carries it.
func appendSuffix(name, suffix string) string {
	if suffix == "" || name == "" {
		return name
	}
	want := normalizeToken(suffix)
	for _, f := range strings.Fields(name) {
		if normalizeToken(f) == want {
			return name
		}
	}
	return name + " " + suffix
}

// contextAround returns up to 50 characters of surrounding text on each
// side of a match.
func contextAround(text string, pos, length int) string {
	start := pos - 50
	if start < 0 {
		start = 0
	}
	end := pos + length + 50
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// entitySuffixTokens are stripped during normalization so "Acme LLC"
// and "ACME, L.L.C." compare equal.
var entitySuffixTokens = map[string]bool{
	"llc":         true,
	"inc":         true,
	"corp":        true,
	"corporation": true,
	"company":     true,
	"co":          true,
	"ltd":         true,
	"llp":         true,
	"pllc":        true,
}

// NormalizeName lowercases a name, strips entity suffix tokens and all
// non-alphanumeric characters. Two candidates are the same company iff
// their normalized names match.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(strings.ToLower(name)) {
		tok := normalizeToken(f)
		if tok == "" || entitySuffixTokens[tok] {
			continue
		}
		b.WriteString(tok)
	}
	return b.String()
}

// normalizeToken lowercases a token and removes non-alphanumerics.
func normalizeToken(tok string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(tok) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dedupe merges candidates whose normalized names are identical,
// keeping the highest-confidence survivor.
func dedupe(cands []Candidate) []Candidate {
	best := make(map[string]int, len(cands)) // key -> index into out
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		key := NormalizeName(c.Name)
		if key == "" {
			continue
		}
		if i, ok := best[key]; ok {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		best[key] = len(out)
		out = append(out, c)
	}
	return out
}
