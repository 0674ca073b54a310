package extract

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

// Raw-container scraping: treat the file as an opaque byte buffer and
// pull printable runs out of known container syntax. Low precision but
// useful signal when structured parsing fails outright on exotic PDFs.
var (
	fieldValueRe = regexp.MustCompile(`/V\s*\(((?:\\.|[^\\()])+)\)`)
	litStringRe  = regexp.MustCompile(`\(((?:\\.|[^\\()]){4,400})\)`)
	hexStringRe  = regexp.MustCompile(`<([0-9A-Fa-f]{8,2000})>`)
)

// scrapeRaw scans the raw bytes for form-field values, parenthesised
// literal strings, and hex strings. Form-field values come first: they
// carry the highest signal.
func scrapeRaw(data []byte) (string, error) {
	raw := string(data)
	var parts []string
	seen := make(map[string]bool)

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] || !mostlyPrintable(s) {
			return
		}
		seen[s] = true
		parts = append(parts, s)
	}

	for _, m := range fieldValueRe.FindAllStringSubmatch(raw, -1) {
		add(unescapeLiteral(m[1]))
	}
	for _, m := range litStringRe.FindAllStringSubmatch(raw, -1) {
		add(unescapeLiteral(m[1]))
	}
	for _, m := range hexStringRe.FindAllStringSubmatch(raw, -1) {
		add(decodeHexString(m[1]))
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no printable container strings found")
	}
	return strings.Join(parts, "\n"), nil
}

// unescapeLiteral resolves the escape sequences of container literal
// strings. Octal escapes are dropped rather than decoded.
func unescapeLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r', 't':
			b.WriteByte(' ')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			for i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7' {
				i++
			}
		}
	}
	return b.String()
}

// decodeHexString decodes a container hex string, handling the UTF-16BE
// byte-order mark PDF writers commonly emit.
func decodeHexString(s string) string {
	if len(s)%2 == 1 {
		s += "0"
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	return string(raw)
}

// mostlyPrintable keeps a scraped run only when at least 60% of its
// characters are letters, digits, spaces, or basic punctuation, and at
// least one letter is present.
func mostlyPrintable(s string) bool {
	if s == "" {
		return false
	}
	printable := 0
	letters := 0
	total := 0
	for _, r := range s {
		total++
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			printable++
			letters++
		case (r >= '0' && r <= '9') || r == ' ' || strings.ContainsRune(".,;:!?-()&'", r):
			printable++
		}
	}
	return letters > 0 && float64(printable)/float64(total) >= 0.6
}
