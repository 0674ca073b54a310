package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mhollis/docname/internal/api"
	"github.com/mhollis/docname/internal/company"
	"github.com/mhollis/docname/internal/config"
	"github.com/mhollis/docname/internal/crm"
	"github.com/mhollis/docname/internal/extract"
	"github.com/mhollis/docname/internal/ocr"
	"github.com/mhollis/docname/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// OCR capabilities come from configuration, not ambient state.
	caps := ocr.Capabilities{
		Remote:   cfg.OCRAPIKey != "",
		Annotate: cfg.AnnotateAPIKey != "",
		Local:    cfg.LocalOCREnabled,
	}
	ocrStats := ocr.NewStats(time.Hour)

	var runner *ocr.Runner
	var remote *ocr.RemoteClient
	var annotate *ocr.AnnotateClient
	if caps.Any() {
		if caps.Remote {
			remote = ocr.NewRemoteClient(cfg.OCREndpoint, cfg.OCRAPIKey, cfg.OCRLanguage, cfg.OCRTimeout)
		}
		if caps.Annotate {
			annotate = ocr.NewAnnotateClient(cfg.AnnotateEndpoint, cfg.AnnotateAPIKey, cfg.OCRTimeout)
		}
		var local *ocr.LocalEngine
		if caps.Local {
			local = ocr.NewLocalEngine(cfg.PdftoppmPath, cfg.OCRRenderDPI, strings.Split(cfg.TesseractLanguages, ","), log)
		}
		runner = ocr.NewRunner(caps, remote, annotate, local, ocrStats, log)
	} else {
		log.Warn("no OCR providers configured; scanned documents will fail extraction")
	}

	var gazetteer []company.Target
	if cfg.GazetteerPath != "" {
		targets, err := company.LoadGazetteer(cfg.GazetteerPath)
		if err != nil {
			log.Error("load gazetteer", "path", cfg.GazetteerPath, "error", err)
			os.Exit(1)
		}
		gazetteer = targets
		log.Info("gazetteer loaded", "targets", len(gazetteer))
	}

	names := company.NewExtractor(company.DefaultPolicy(), gazetteer, log)
	extractor := extract.NewExtractor(runner, log)
	pipe := pipeline.New(extractor, names, log)
	crmClient := crm.NewClient(cfg.CRMBaseURL, cfg.CRMToken)

	srv := api.NewServer(pipe, crmClient, ocrStats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ProcessTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if remote != nil {
			remote.Close()
		}
		if annotate != nil {
			annotate.Close()
		}
		crmClient.Close()
	}()

	log.Info("starting docname", "port", cfg.Port, "ocr_remote", caps.Remote, "ocr_annotate", caps.Annotate, "ocr_local", caps.Local)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
