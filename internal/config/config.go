package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth for this service's API.
	APIKey string

	// Remote OCR service (primary).
	OCREndpoint string
	OCRAPIKey   string
	OCRLanguage string
	OCRTimeout  time.Duration

	// Image-annotation OCR (fallback provider).
	AnnotateEndpoint string
	AnnotateAPIKey   string

	// Local OCR engine (last resort).
	LocalOCREnabled    bool
	TesseractLanguages string
	PdftoppmPath       string
	OCRRenderDPI       int

	// CRM collaborator.
	CRMBaseURL string
	CRMToken   string

	// Optional gazetteer of known target companies.
	GazetteerPath string

	// Upload limits.
	MaxUploadBytes int64

	// Per-document processing deadline.
	ProcessTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCNAME_API_KEY"),

		OCREndpoint: envOr("OCR_ENDPOINT", "https://api.ocr.space/parse/image"),
		OCRAPIKey:   os.Getenv("OCR_API_KEY"),
		OCRLanguage: envOr("OCR_LANGUAGE", "eng"),
		OCRTimeout:  envDuration("OCR_TIMEOUT", 45*time.Second),

		AnnotateEndpoint: envOr("ANNOTATE_ENDPOINT", "https://vision.googleapis.com/v1/images:annotate"),
		AnnotateAPIKey:   os.Getenv("ANNOTATE_API_KEY"),

		LocalOCREnabled:    envBool("LOCAL_OCR_ENABLED", false),
		TesseractLanguages: envOr("TESSERACT_LANGUAGES", "eng"),
		PdftoppmPath:       envOr("PDFTOPPM_PATH", "pdftoppm"),
		OCRRenderDPI:       envInt("OCR_RENDER_DPI", 300),

		CRMBaseURL: os.Getenv("CRM_BASE_URL"),
		CRMToken:   os.Getenv("CRM_TOKEN"),

		GazetteerPath: os.Getenv("GAZETTEER_PATH"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		ProcessTimeout: envDuration("PROCESS_TIMEOUT", 3*time.Minute),
	}

	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 45 * time.Second
	}
	if cfg.OCRRenderDPI <= 0 {
		cfg.OCRRenderDPI = 300
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = 3 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCNAME_API_KEY is required")
	}
	if c.CRMBaseURL == "" {
		return fmt.Errorf("CRM_BASE_URL is required")
	}
	if c.CRMToken == "" {
		return fmt.Errorf("CRM_TOKEN is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
