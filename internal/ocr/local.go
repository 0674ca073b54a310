package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Exec lets tests stub the external rasterizer command.
type Exec interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	log *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		r.log.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 4<<10),
		)
	}
	return out.Bytes(), errb.Bytes(), err
}

// LocalEngine is the last-resort OCR fallback: PDF pages are rasterized
// to high-DPI images with pdftoppm, preprocessed, and recognized with
// Tesseract.
type LocalEngine struct {
	exec      Exec
	pdftoppm  string
	dpi       int
	languages []string
	log       *slog.Logger
}

func NewLocalEngine(pdftoppm string, dpi int, languages []string, log *slog.Logger) *LocalEngine {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &LocalEngine{
		exec:      execRunner{log: log},
		pdftoppm:  pdftoppm,
		dpi:       dpi,
		languages: languages,
		log:       log,
	}
}

// Recognize runs local OCR over the document. PDFs are rasterized page
// by page; images are recognized directly.
func (e *LocalEngine) Recognize(ctx context.Context, data []byte, mediaType string) (string, error) {
	switch mediaType {
	case "application/pdf":
		return e.recognizePDF(ctx, data)
	case "image/png", "image/jpeg":
		return e.recognizeImage(data)
	}
	return "", fmt.Errorf("local ocr does not handle %s", mediaType)
}

func (e *LocalEngine) recognizePDF(ctx context.Context, data []byte) (string, error) {
	scratch, err := os.MkdirTemp("", "docname-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			e.log.Warn("scratch cleanup failed", "dir", scratch, "error", rmErr)
		}
	}()

	pdfPath := filepath.Join(scratch, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write scratch pdf: %w", err)
	}

	prefix := filepath.Join(scratch, "page")
	_, errb, err := e.exec.Run(ctx, e.pdftoppm, "-r", strconv.Itoa(e.dpi), "-png", pdfPath, prefix)
	if err != nil {
		return "", fmt.Errorf("rasterize pdf: %w: %s", err, truncate(string(errb), 200))
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", fmt.Errorf("rasterizer produced no pages")
	}

	var b strings.Builder
	for _, page := range pages {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		img, err := os.ReadFile(page)
		if err != nil {
			e.log.Warn("read rendered page failed", "page", page, "error", err)
			continue
		}
		text, err := e.recognizeImage(img)
		if err != nil {
			e.log.Warn("local ocr page failed", "page", page, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString(pageSeparator)
		}
		b.WriteString(text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("local ocr recognized no text on %d pages", len(pages))
	}
	return b.String(), nil
}

func (e *LocalEngine) recognizeImage(img []byte) (string, error) {
	prepared, err := preprocess(img)
	if err != nil {
		// Recognition can still work on the raw image.
		e.log.Warn("image preprocessing failed, using original", "error", err)
		prepared = img
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(e.dpi)); err != nil {
		return "", fmt.Errorf("set dpi: %w", err)
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
