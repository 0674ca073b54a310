package company

import (
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
)

func testExtractor() *Extractor {
	return NewExtractor(DefaultPolicy(), nil, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestExtractLLCNameClause(t *testing.T) {
	text := "ARTICLES OF ORGANIZATION\n\nFirst: The name of the limited liability company is Foo Bar, LLC.\n\nSecond: The county within this state is Kings."
	cands := testExtractor().Extract(text)
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate")
	}
	top := cands[0]
	if top.Name != "Foo Bar, LLC" {
		t.Errorf("expected top candidate %q, got %q", "Foo Bar, LLC", top.Name)
	}
	if top.Confidence < 70 {
		t.Errorf("expected confidence >= 70 for name clause, got %d", top.Confidence)
	}
	if top.Pattern != "llc_name_clause" {
		t.Errorf("expected pattern llc_name_clause, got %q", top.Pattern)
	}
	if top.Context == "" {
		t.Error("expected non-empty context")
	}
}

func TestExtractAppendsSuffixWhenMissing(t *testing.T) {
	text := "The name of the limited liability company is Riverside Ventures."
	cands := testExtractor().Extract(text)
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if cands[0].Name != "Riverside Ventures LLC" {
		t.Errorf("expected LLC suffix appended, got %q", cands[0].Name)
	}
}

func TestExtractFirmHeader(t *testing.T) {
	text := "Porvin, Burnstein & Garelik, PLLC\n123 Main Street\nNew York, NY 10001\n\nRe: formation documents enclosed herewith for your review."
	cands := testExtractor().Extract(text)
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate")
	}
	found := false
	for _, c := range cands {
		if strings.Contains(c.Name, "Porvin") && strings.Contains(c.Name, "PLLC") {
			found = true
			if c.Confidence < 40 {
				t.Errorf("expected confidence >= 40, got %d", c.Confidence)
			}
		}
	}
	if !found {
		t.Fatalf("expected a Porvin PLLC candidate, got %+v", cands)
	}
}

func TestExtractDeduplicatesSuffixVariants(t *testing.T) {
	text := "Acme LLC was formed in Delaware. The agreement binds ACME, L.L.C. and its members. Acme LLC holds the assets."
	cands := testExtractor().Extract(text)
	acme := 0
	for _, c := range cands {
		if NormalizeName(c.Name) == "acme" {
			acme++
		}
	}
	if acme != 1 {
		t.Fatalf("expected exactly one Acme candidate after dedup, got %d in %+v", acme, cands)
	}
}

func TestExtractRankingAndLimit(t *testing.T) {
	text := "The name of the limited liability company is Alpha Partners, LLC.\n" +
		"Beta Holdings LLC and Gamma Services Inc. and Delta Group Corp. " +
		"and Epsilon Trading Ltd. and Zeta Capital LLP signed the agreement."
	cands := testExtractor().Extract(text)
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	if len(cands) > 5 {
		t.Fatalf("expected at most 5 candidates, got %d", len(cands))
	}
	if !sort.SliceIsSorted(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].Name < cands[j].Name
	}) {
		t.Errorf("candidates not sorted by confidence desc: %+v", cands)
	}
	if NormalizeName(cands[0].Name) != "alphapartners" {
		t.Errorf("expected the name clause hit ranked first, got %q", cands[0].Name)
	}
}

func TestExtractConfidenceBounds(t *testing.T) {
	// Early position, repetition and typical length all stack on top of
	// the 95-point base; the result must still clamp at 100.
	text := strings.Repeat("The name of the limited liability company is Foo Bar, LLC.\n", 6)
	cands := testExtractor().Extract(text)
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range cands {
		if c.Confidence < 0 || c.Confidence > 100 {
			t.Errorf("confidence out of bounds for %q: %d", c.Name, c.Confidence)
		}
	}
	if cands[0].Confidence != 100 {
		t.Errorf("expected stacked bonuses to clamp at 100, got %d", cands[0].Confidence)
	}
}

func TestExtractDenylistFiltersBoilerplate(t *testing.T) {
	text := "Department of State Company filings accepted. Secretary Of State Co. records all submissions."
	for _, c := range testExtractor().Extract(text) {
		lower := strings.ToLower(c.Name)
		if strings.Contains(lower, "department") || strings.Contains(lower, "secretary of state") {
			t.Errorf("denylisted candidate leaked through: %q", c.Name)
		}
	}
}

func TestExtractStandardFallback(t *testing.T) {
	// The slash inside the suffix token defeats the strict library, so
	// the fuzzy last-resort pass must recover the name.
	text := "Invoice issued by Quantum Widgets I/nc. for services rendered during the month of March."
	cands := testExtractor().Extract(text)
	if len(cands) == 0 {
		t.Fatal("expected the fallback pass to find a candidate")
	}
	if cands[0].Pattern != "standard_suffix" {
		t.Errorf("expected standard_suffix pattern, got %q", cands[0].Pattern)
	}
	if !strings.Contains(cands[0].Name, "Quantum Widgets") {
		t.Errorf("unexpected candidate name %q", cands[0].Name)
	}
}

func TestExtractNoCandidates(t *testing.T) {
	text := "This paragraph discusses the weather in considerable detail and never once names a business entity of any kind."
	if cands := testExtractor().Extract(text); len(cands) != 0 {
		t.Fatalf("expected no candidates, got %+v", cands)
	}
}

func TestExtractFuzzyClauseSurvivesOCRNoise(t *testing.T) {
	// OCR noise inserted between the letters of the phraseology anchor.
	text := "The n4ame of t.he lim-ited li_abil-ity c.ompany is: Bright Mesa Partners LLC"
	cands := testExtractor().Extract(text)
	found := false
	for _, c := range cands {
		if strings.Contains(c.Name, "Bright Mesa") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fuzzy clause to recover the name, got %+v", cands)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme LLC", "acme"},
		{"ACME, L.L.C.", "acme"},
		{"Foo Bar, LLC", "foobar"},
		{"Quantum Widgets Inc.", "quantumwidgets"},
		{"Porvin, Burnstein & Garelik, PLLC", "porvinburnsteingarelik"},
		{"Epsilon Trading Ltd.", "epsilontrading"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanNameDropsOCRDebris(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo   Bar", "Foo Bar"},
		{"Foo Bar ###", "Foo Bar"},
		{"x Foo Bar 123", "Foo Bar"},
		{"Smith & Jones", "Smith & Jones"},
		{"  Acme Holdings, ", "Acme Holdings"},
	}
	for _, tc := range tests {
		if got := cleanName(tc.in); got != tc.want {
			t.Errorf("cleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"L.L.C.", "LLC"},
		{"LLC", "LLC"},
		{"P.L.L.C.", "PLLC"},
		{"Inc.", "Inc."},
		{"Corporation", "Corp."},
		{"Co.", "Company"},
		{"Ltd", "Ltd."},
		{"L.L.P.", "LLP"},
		{"bogus", ""},
	}
	for _, tc := range tests {
		if got := canonicalSuffix(tc.in); got != tc.want {
			t.Errorf("canonicalSuffix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
