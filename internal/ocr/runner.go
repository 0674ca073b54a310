package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mhollis/docname/internal/quality"
)

// Runner tries remote profiles in priority order, then the annotation
// provider, then the local engine. Failure of an individual profile
// never aborts the run; only exhausting every provider is fatal.
type Runner struct {
	caps     Capabilities
	remote   *RemoteClient
	annotate *AnnotateClient
	local    *LocalEngine
	profiles []Profile
	gate     quality.Gate
	stats    *Stats
	log      *slog.Logger
}

func NewRunner(caps Capabilities, remote *RemoteClient, annotate *AnnotateClient, local *LocalEngine, stats *Stats, log *slog.Logger) *Runner {
	return &Runner{
		caps:     caps,
		remote:   remote,
		annotate: annotate,
		local:    local,
		profiles: DefaultProfiles,
		gate:     quality.OCRGate,
		stats:    stats,
		log:      log,
	}
}

// ServiceUnavailableError means every configured provider and profile
// was exhausted without producing text that clears the OCR gate.
type ServiceUnavailableError struct {
	Attempted []string
}

func (e *ServiceUnavailableError) Error() string {
	if len(e.Attempted) == 0 {
		return "ocr: no providers configured"
	}
	return fmt.Sprintf("ocr: all providers exhausted (%s)", strings.Join(e.Attempted, "; "))
}

// Recognize runs the fallback chain for one document and returns the
// first result that clears the OCR quality gate.
func (r *Runner) Recognize(ctx context.Context, data []byte, mediaType string) (*RunResult, error) {
	var attempted []string

	if r.caps.Remote && r.remote != nil {
		for _, p := range r.profiles {
			res, reason := r.tryRemote(ctx, data, mediaType, p)
			if res != nil {
				return res, nil
			}
			attempted = append(attempted, fmt.Sprintf("%s: %s", p.Name, reason))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
	}

	if r.caps.Annotate && r.annotate != nil && isImage(mediaType) {
		res, reason := r.tryAnnotate(ctx, data)
		if res != nil {
			return res, nil
		}
		attempted = append(attempted, "annotate: "+reason)
	}

	if r.caps.Local && r.local != nil {
		res, reason := r.tryLocal(ctx, data, mediaType)
		if res != nil {
			return res, nil
		}
		attempted = append(attempted, "local: "+reason)
	}

	return nil, &ServiceUnavailableError{Attempted: attempted}
}

// tryRemote issues one profile. The returned reason is only meaningful
// when the result is nil.
func (r *Runner) tryRemote(ctx context.Context, data []byte, mediaType string, p Profile) (*RunResult, string) {
	start := time.Now()
	pages, err := r.remote.Recognize(ctx, data, mediaType, p)
	r.stats.Record("remote", time.Since(start).Milliseconds())
	if err != nil {
		r.log.Warn("ocr profile failed", "profile", p.Name, "error", err)
		return nil, err.Error()
	}

	pageResults := make([]PageResult, 0, len(pages))
	for i, page := range pages {
		pageResults = append(pageResults, PageResult{
			Page:    i + 1,
			Chars:   len(page),
			Quality: quality.Analyze(page),
		})
	}

	text := Clean(strings.Join(pages, pageSeparator))
	rep := quality.Analyze(text)
	if reason := rep.FailureReason(r.gate); reason != "" {
		r.log.Warn("ocr profile below quality gate", "profile", p.Name, "reason", reason)
		return nil, reason
	}
	return &RunResult{Text: text, Source: p.Name, Quality: rep, Pages: pageResults}, ""
}

func (r *Runner) tryAnnotate(ctx context.Context, data []byte) (*RunResult, string) {
	start := time.Now()
	raw, err := r.annotate.Annotate(ctx, data)
	r.stats.Record("annotate", time.Since(start).Milliseconds())
	if err != nil {
		r.log.Warn("annotate fallback failed", "error", err)
		return nil, err.Error()
	}
	text := Clean(raw)
	rep := quality.Analyze(text)
	if reason := rep.FailureReason(r.gate); reason != "" {
		return nil, reason
	}
	return &RunResult{
		Text:    text,
		Source:  "annotate",
		Quality: rep,
		Pages:   []PageResult{{Page: 1, Chars: len(text), Quality: rep}},
	}, ""
}

func (r *Runner) tryLocal(ctx context.Context, data []byte, mediaType string) (*RunResult, string) {
	start := time.Now()
	raw, err := r.local.Recognize(ctx, data, mediaType)
	r.stats.Record("local", time.Since(start).Milliseconds())
	if err != nil {
		r.log.Warn("local ocr failed", "error", err)
		return nil, err.Error()
	}

	rawPages := strings.Split(raw, pageSeparator)
	pageResults := make([]PageResult, 0, len(rawPages))
	for i, page := range rawPages {
		pageResults = append(pageResults, PageResult{
			Page:    i + 1,
			Chars:   len(page),
			Quality: quality.Analyze(page),
		})
	}

	text := Clean(raw)
	rep := quality.Analyze(text)
	if reason := rep.FailureReason(r.gate); reason != "" {
		return nil, reason
	}
	return &RunResult{Text: text, Source: "local", Quality: rep, Pages: pageResults}, ""
}

func isImage(mediaType string) bool {
	return mediaType == "image/png" || mediaType == "image/jpeg"
}
