package company

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGazetteer(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gazetteer.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write gazetteer: %v", err)
	}
	return path
}

func TestLoadGazetteer(t *testing.T) {
	path := writeGazetteer(t, `
targets:
  - name: Vandelay Industries LLC
    fragments: [vandelay, industries]
    confidence: 80
  - name: Kramerica Holdings
    fragments: [kramerica]
`)
	targets, err := LoadGazetteer(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].CanonicalName != "Vandelay Industries LLC" {
		t.Errorf("unexpected name %q", targets[0].CanonicalName)
	}
	if targets[0].Confidence != 80 {
		t.Errorf("unexpected confidence %d", targets[0].Confidence)
	}
	if targets[1].Confidence != 0 {
		t.Errorf("expected unset confidence to load as 0, got %d", targets[1].Confidence)
	}
}

func TestLoadGazetteerRejectsMissingName(t *testing.T) {
	path := writeGazetteer(t, `
targets:
  - name: ""
    fragments: [x]
`)
	if _, err := LoadGazetteer(path); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestLoadGazetteerRejectsEmptyFragments(t *testing.T) {
	path := writeGazetteer(t, `
targets:
  - name: Acme LLC
    fragments: []
`)
	if _, err := LoadGazetteer(path); err == nil {
		t.Fatal("expected error for empty fragments")
	}
}

func TestMatchGazetteerHitRate(t *testing.T) {
	targets := []Target{
		{
			CanonicalName: "Vandelay Industries LLC",
			Fragments:     []string{"vandelay", "industries", "latex"},
		},
	}

	// Two of three fragments present: 0.66 clears the 0.6 threshold.
	cands := matchGazetteer("agreement between VANDELAY and the industries group", targets)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Name != "Vandelay Industries LLC" {
		t.Errorf("expected canonical name, got %q", cands[0].Name)
	}
	if cands[0].Confidence != 75 {
		t.Errorf("expected default confidence 75, got %d", cands[0].Confidence)
	}
	if cands[0].Pattern != "gazetteer_fragments" {
		t.Errorf("unexpected pattern %q", cands[0].Pattern)
	}

	// One of three fragments: below threshold.
	if cands := matchGazetteer("only vandelay appears in this text", targets); len(cands) != 0 {
		t.Fatalf("expected no candidates below hit rate, got %+v", cands)
	}
}

func TestMatchGazetteerSubstringFragments(t *testing.T) {
	targets := []Target{
		{
			CanonicalName: "Vandelay Industries LLC",
			Fragments:     []string{"vande", "indus"},
			Confidence:    90,
		},
	}
	// OCR ran the tokens together; fragments still match inside them.
	cands := matchGazetteer("vandelayindustries formation documents", targets)
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate from substring fragments, got %d", len(cands))
	}
	if cands[0].Confidence != 90 {
		t.Errorf("expected configured confidence 90, got %d", cands[0].Confidence)
	}
}

func TestMatchGazetteerEmpty(t *testing.T) {
	if cands := matchGazetteer("some text", nil); cands != nil {
		t.Fatalf("expected nil for empty gazetteer, got %+v", cands)
	}
	targets := []Target{{CanonicalName: "Acme", Fragments: []string{"acme"}}}
	if cands := matchGazetteer("@@@ !!!", targets); cands != nil {
		t.Fatalf("expected nil for token-free text, got %+v", cands)
	}
}

func TestExtractMergesGazetteerCandidates(t *testing.T) {
	targets := []Target{
		{CanonicalName: "Vandelay Industries LLC", Fragments: []string{"vandelay", "industries"}, Confidence: 85},
	}
	e := NewExtractor(DefaultPolicy(), targets, nil)
	// Garbled text where regex finds nothing but fragments survive.
	text := "x7#q vandelay pp@3 industries zz!k formation x"
	cands := e.Extract(text)
	if len(cands) != 1 {
		t.Fatalf("expected 1 gazetteer candidate, got %+v", cands)
	}
	if cands[0].Name != "Vandelay Industries LLC" || cands[0].Confidence != 85 {
		t.Errorf("unexpected candidate %+v", cands[0])
	}
}
