package extract

import (
	"fmt"
	"strings"
)

// minASCIIRun is the shortest printable run worth keeping from a legacy
// .doc byte scan.
const minASCIIRun = 4

// docASCIIText is a best-effort byte-to-text scan for legacy .doc
// files: collect printable single-byte runs, then printable UTF-16LE
// runs (the format stores most body text as little-endian UTF-16).
func docASCIIText(data []byte) (string, error) {
	var buf strings.Builder

	appendRun := func(run []byte) {
		if len(run) < minASCIIRun {
			return
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(run)
	}

	var run []byte
	for _, c := range data {
		if printableByte(c) {
			run = append(run, c)
			continue
		}
		appendRun(run)
		run = run[:0]
	}
	appendRun(run)

	// UTF-16LE pass: pairs of (printable, 0x00).
	run = run[:0]
	for i := 0; i+1 < len(data); i += 2 {
		if data[i+1] == 0x00 && printableByte(data[i]) {
			run = append(run, data[i])
			continue
		}
		appendRun(run)
		run = run[:0]
	}
	appendRun(run)

	if buf.Len() == 0 {
		return "", fmt.Errorf("no printable runs found")
	}
	return buf.String(), nil
}

func printableByte(c byte) bool {
	return (c >= 0x20 && c <= 0x7E) || c == '\t'
}
