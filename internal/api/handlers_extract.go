package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mhollis/docname/internal/crm"
	"github.com/mhollis/docname/internal/extract"
	"github.com/mhollis/docname/internal/pipeline"
)

// handleExtract runs the pipeline without side effects: upload a
// document, get ranked company-name candidates back.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	docID, outcome, ok := s.runPipeline(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"doc_id":      docID,
		"candidates":  outcome.Candidates,
		"text_length": outcome.TextLength,
		"strategy":    outcome.Strategy,
		"quality":     outcome.Quality,
		"attempts":    outcome.Attempts,
	})
}

// handleCompanyName runs the pipeline and pushes the top candidate's
// name to the CRM record, unless apply=false.
func (s *Server) handleCompanyName(w http.ResponseWriter, r *http.Request) {
	companyID := strings.TrimSpace(chi.URLParam(r, "companyID"))
	if companyID == "" {
		jsonError(w, "companyID is required", http.StatusBadRequest)
		return
	}

	docID, outcome, ok := s.runPipeline(w, r)
	if !ok {
		return
	}

	top := outcome.Candidates[0]
	applied := false
	if r.FormValue("apply") != "false" {
		if err := s.crm.UpdateCompanyName(r.Context(), companyID, top.Name); err != nil {
			s.log.Error("crm update failed", "doc_id", docID, "company_id", companyID, "error", err)
			var ue *crm.UpdateError
			if errors.As(err, &ue) {
				respondJSON(w, http.StatusBadGateway, map[string]any{
					"error":           "crm update failed",
					"upstream_status": ue.StatusCode,
					"upstream_body":   ue.Body,
					"doc_id":          docID,
					"candidates":      outcome.Candidates,
				})
				return
			}
			respondJSON(w, http.StatusBadGateway, map[string]any{
				"error":      "crm update failed: " + err.Error(),
				"doc_id":     docID,
				"candidates": outcome.Candidates,
			})
			return
		}
		applied = true
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"doc_id":      docID,
		"company_id":  companyID,
		"applied":     applied,
		"name":        top.Name,
		"confidence":  top.Confidence,
		"candidates":  outcome.Candidates,
		"text_length": outcome.TextLength,
		"strategy":    outcome.Strategy,
		"quality":     outcome.Quality,
		"attempts":    outcome.Attempts,
	})
}

func (s *Server) handleOCRStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ocrStats.Snapshot())
}

// runPipeline handles the multipart upload and error mapping shared by
// the extraction endpoints. Returns ok=false after writing an error
// response.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) (string, *pipeline.Outcome, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	mediaType := r.FormValue("media_type")
	if mediaType == "" {
		mediaType = extract.MediaTypeForFilename(header.Filename)
	}
	if mediaType == "" {
		jsonError(w, "unsupported file type: "+filepath.Ext(header.Filename), http.StatusUnsupportedMediaType)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, "file exceeds max size", http.StatusRequestEntityTooLarge)
		return "", nil, false
	}

	docID := uuid.NewString()
	log := s.log.With("doc_id", docID, "filename", header.Filename, "media_type", mediaType)

	// The per-document deadline bounds the whole fallback chain, not
	// just the individual OCR calls.
	ctx := r.Context()
	if s.cfg.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProcessTimeout)
		defer cancel()
	}

	outcome, err := s.pipeline.Process(ctx, data, mediaType)
	if err != nil {
		s.respondPipelineError(w, log, docID, err)
		return "", nil, false
	}
	return docID, outcome, true
}

// respondPipelineError maps the pipeline error taxonomy onto HTTP
// responses, always carrying the diagnostic payload.
func (s *Server) respondPipelineError(w http.ResponseWriter, log *slog.Logger, docID string, err error) {
	var unsupported *extract.UnsupportedMediaTypeError
	if errors.As(err, &unsupported) {
		jsonError(w, unsupported.Error(), http.StatusUnsupportedMediaType)
		return
	}

	var exhausted *extract.ExhaustedError
	if errors.As(err, &exhausted) {
		log.Error("extraction exhausted", "error", err)
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    exhausted.Error(),
			"doc_id":   docID,
			"attempts": exhausted.Attempts,
		})
		return
	}

	var noCands *pipeline.NoCandidatesError
	if errors.As(err, &noCands) {
		log.Error("no candidates found", "error", err)
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    noCands.Error(),
			"doc_id":   docID,
			"excerpt":  noCands.Excerpt,
			"quality":  noCands.Quality,
			"attempts": noCands.Attempts,
		})
		return
	}

	log.Error("pipeline failed", "error", err)
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
