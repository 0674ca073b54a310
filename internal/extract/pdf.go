package extract

import (
	"fmt"
	"math"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// withTempPDF writes the document to a temp file and runs fn against
// it. The pdf library requires a ReadSeeker plus size, and the temp
// file is removed on every exit path.
func withTempPDF(data []byte, fn func(path string) (string, error)) (string, error) {
	tmp, err := os.CreateTemp("", "docname-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return fn(tmpPath)
}

// nativePDFText extracts the PDF text layer with the library's default
// reconstruction. Cheapest strategy, tried first.
func nativePDFText(data []byte) (string, error) {
	return withTempPDF(data, func(path string) (string, error) {
		f, reader, err := pdflib.Open(path)
		if err != nil {
			return "", fmt.Errorf("open pdf: %w", err)
		}
		defer f.Close()

		var buf strings.Builder
		numPages := reader.NumPage()
		for i := 1; i <= numPages; i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			text, err := page.GetPlainText(nil)
			if err != nil {
				continue
			}
			if buf.Len() > 0 {
				buf.WriteString("\f")
			}
			buf.WriteString(text)
		}
		return buf.String(), nil
	})
}

// enhancedPDFText re-reads the text layer item by item and rebuilds
// whitespace from glyph positions. Covers PDFs whose text layer needs
// different reconstruction settings than the default parse.
func enhancedPDFText(data []byte) (string, error) {
	return withTempPDF(data, func(path string) (string, error) {
		f, reader, err := pdflib.Open(path)
		if err != nil {
			return "", fmt.Errorf("open pdf: %w", err)
		}
		defer f.Close()

		var buf strings.Builder
		numPages := reader.NumPage()
		for i := 1; i <= numPages; i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			if buf.Len() > 0 {
				buf.WriteString("\f")
			}
			writePageItems(&buf, page)
		}
		return buf.String(), nil
	})
}

// writePageItems joins a page's positioned text items, inserting a
// newline on vertical jumps larger than roughly half the font size and
// a space on horizontal gaps.
func writePageItems(buf *strings.Builder, page pdflib.Page) {
	content := page.Content()

	var lastY, lastEndX float64
	first := true
	for _, item := range content.Text {
		if item.S == "" {
			continue
		}
		if !first {
			lineJump := item.FontSize * 0.6
			if lineJump <= 0 {
				lineJump = 6
			}
			switch {
			case math.Abs(item.Y-lastY) > lineJump:
				buf.WriteByte('\n')
			case item.X-lastEndX > 1.0:
				buf.WriteByte(' ')
			}
		}
		buf.WriteString(item.S)
		lastY = item.Y
		lastEndX = item.X + item.W
		first = false
	}
}
