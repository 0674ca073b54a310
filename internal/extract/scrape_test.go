package extract

import (
	"strings"
	"testing"
)

func TestScrapeRawLiteralStrings(t *testing.T) {
	data := []byte("1 0 obj << /Length 42 >> stream\nBT (The name of the limited liability company is) Tj (Acme Holdings LLC) Tj ET\nendstream endobj")
	text, err := scrapeRaw(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "limited liability company") {
		t.Errorf("expected first literal in output, got %q", text)
	}
	if !strings.Contains(text, "Acme Holdings LLC") {
		t.Errorf("expected second literal in output, got %q", text)
	}
}

func TestScrapeRawFieldValuesFirst(t *testing.T) {
	data := []byte("(Some body text appears first) Tj\n<< /T (EntityName) /V (Acme Holdings LLC) >>")
	text, err := scrapeRaw(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(text, "\n")
	if lines[0] != "Acme Holdings LLC" {
		t.Errorf("expected form-field value first, got lines %v", lines)
	}
}

func TestScrapeRawDeduplicates(t *testing.T) {
	data := []byte("(Acme Holdings LLC) Tj (Acme Holdings LLC) Tj (Acme Holdings LLC) Tj")
	text, err := scrapeRaw(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(text, "Acme"); n != 1 {
		t.Errorf("expected deduplicated output, got %d occurrences in %q", n, text)
	}
}

func TestScrapeRawSkipsBinaryRuns(t *testing.T) {
	data := []byte("(\x01\x02\x03\x04\x05\x06) Tj (Acme Holdings LLC) Tj")
	text, err := scrapeRaw(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "\x01") {
		t.Errorf("binary run leaked into output: %q", text)
	}
	if text != "Acme Holdings LLC" {
		t.Errorf("expected only the printable literal, got %q", text)
	}
}

func TestScrapeRawNothingFound(t *testing.T) {
	if _, err := scrapeRaw([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Fatal("expected error for byte soup")
	}
}

func TestScrapeRawHexUTF16(t *testing.T) {
	// "Acme" as UTF-16BE with a byte-order mark.
	data := []byte("<FEFF00410063006D0065> Tj")
	text, err := scrapeRaw(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Acme" {
		t.Errorf("expected decoded UTF-16 string, got %q", text)
	}
}

func TestUnescapeLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Acme \(Holdings\) LLC`, "Acme (Holdings) LLC"},
		{`line one\nline two`, "line one\nline two"},
		{`tab\there`, "tab here"},
		{`back\\slash`, `back\slash`},
		{`octal\101dropped`, "octaldropped"},
	}
	for _, tc := range tests {
		if got := unescapeLiteral(tc.in); got != tc.want {
			t.Errorf("unescapeLiteral(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMostlyPrintable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Acme Holdings LLC", true},
		{"", false},
		{"12345", false}, // digits but no letters
		{"a\x01\x02\x03\x04", false},
		{"mostly good text with one \x7f", true},
	}
	for _, tc := range tests {
		if got := mostlyPrintable(tc.in); got != tc.want {
			t.Errorf("mostlyPrintable(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
