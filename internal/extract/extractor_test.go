package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testExtractor() *Extractor {
	return NewExtractor(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMediaTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"filing.pdf", MediaTypePDF},
		{"FILING.PDF", MediaTypePDF},
		{"agreement.docx", MediaTypeDOCX},
		{"legacy.doc", MediaTypeDOC},
		{"scan.png", MediaTypePNG},
		{"scan.jpg", MediaTypeJPEG},
		{"scan.jpeg", MediaTypeJPEG},
		{"archive.zip", ""},
		{"noextension", ""},
	}
	for _, tc := range tests {
		if got := MediaTypeForFilename(tc.filename); got != tc.want {
			t.Errorf("MediaTypeForFilename(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestExtractUnsupportedMediaType(t *testing.T) {
	_, err := testExtractor().Extract(context.Background(), []byte("x"), "application/zip")
	var unsupported *UnsupportedMediaTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedMediaTypeError, got %T: %v", err, err)
	}
	if unsupported.MediaType != "application/zip" {
		t.Errorf("unexpected media type in error: %q", unsupported.MediaType)
	}
}

func TestExtractDocRecoversText(t *testing.T) {
	// Legacy .doc bytes: binary junk around a single-byte printable run.
	var data []byte
	data = append(data, 0x01, 0x02, 0x03)
	data = append(data, []byte("The name of the limited liability company is Acme Holdings LLC and the agreement binds all members of the company")...)
	data = append(data, 0x00, 0xFF, 0x05)
	res, err := testExtractor().Extract(context.Background(), data, MediaTypeDOC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Strategy != "doc_ascii" {
		t.Errorf("expected doc_ascii strategy, got %q", res.Strategy)
	}
	if !strings.Contains(res.Text, "Acme Holdings") {
		t.Errorf("unexpected text %q", res.Text)
	}
	if len(res.Attempts) != 1 || !res.Attempts[0].Succeeded {
		t.Errorf("unexpected attempt trail %+v", res.Attempts)
	}
}

func TestExtractExhaustionWithoutOCR(t *testing.T) {
	// Garbage that no PDF strategy can make sense of, with no OCR
	// runner configured: the audit trail must name every attempt.
	data := []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0x80, 0x81}
	_, err := testExtractor().Extract(context.Background(), data, MediaTypePDF)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T: %v", err, err)
	}

	want := []string{"pdf_native", "pdf_enhanced", "raw_scrape", "ocr"}
	if len(exhausted.Attempts) != len(want) {
		t.Fatalf("expected %d attempts, got %+v", len(want), exhausted.Attempts)
	}
	for i, name := range want {
		a := exhausted.Attempts[i]
		if a.Strategy != name {
			t.Errorf("attempt %d: expected strategy %q, got %q", i, name, a.Strategy)
		}
		if a.Succeeded {
			t.Errorf("attempt %d: expected failure", i)
		}
		if a.Reason == "" {
			t.Errorf("attempt %d: expected a failure reason", i)
		}
	}
	msg := exhausted.Error()
	if !strings.Contains(msg, "pdf_native") || !strings.Contains(msg, "rescanning") {
		t.Errorf("expected enumerated attempts and remediation in message, got %q", msg)
	}
}

func TestExtractGatesLowQualityText(t *testing.T) {
	// The single-byte pass recovers the run, but it has no valid words,
	// so the doc_ascii attempt is recorded as below the gate.
	data := []byte("zxqw jkpv bcdf ghjk lmnp qrst vwxz qqqq wwww")
	_, err := testExtractor().Extract(context.Background(), data, MediaTypeDOC)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T: %v", err, err)
	}
	first := exhausted.Attempts[0]
	if first.Strategy != "doc_ascii" {
		t.Fatalf("unexpected first attempt %+v", first)
	}
	if first.Quality == nil {
		t.Fatal("expected quality report on gated attempt")
	}
	if !strings.Contains(first.Reason, "valid words") {
		t.Errorf("expected valid-word gate reason, got %q", first.Reason)
	}
}
