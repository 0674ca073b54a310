package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// RemoteClient calls the primary text-recognition HTTP service. The
// service accepts file bytes plus a flat set of named parameters and
// returns structured per-page text results.
type RemoteClient struct {
	endpoint   string
	apiKey     string
	language   string
	httpClient *http.Client
}

func NewRemoteClient(endpoint, apiKey, language string, timeout time.Duration) *RemoteClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &RemoteClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type remoteResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
		ErrorMessage      string `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	OCRExitCode           int  `json:"OCRExitCode"`
	ErrorMessage          any  `json:"ErrorMessage"`
}

// Recognize submits the document under one parameter profile and
// returns the recognized text per page.
func (c *RemoteClient) Recognize(ctx context.Context, data []byte, mediaType string, p Profile) ([]string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"language":          c.language,
		"OCREngine":         strconv.Itoa(p.Engine),
		"scale":             strconv.FormatBool(p.Scale),
		"isTable":           strconv.FormatBool(p.Table),
		"detectOrientation": strconv.FormatBool(p.DetectOrientation),
		"filetype":          fileTypeFor(mediaType),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	fw, err := mw.CreateFormFile("file", "document."+fileExtFor(mediaType))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ocr service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr service status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed remoteResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return nil, fmt.Errorf("ocr processing error (exit %d): %v", parsed.OCRExitCode, parsed.ErrorMessage)
	}
	if len(parsed.ParsedResults) == 0 {
		return nil, fmt.Errorf("ocr returned no results")
	}

	pages := make([]string, 0, len(parsed.ParsedResults))
	for i, pr := range parsed.ParsedResults {
		if pr.FileParseExitCode != 1 {
			return nil, fmt.Errorf("page %d parse failed (exit %d): %s", i+1, pr.FileParseExitCode, pr.ErrorMessage)
		}
		pages = append(pages, pr.ParsedText)
	}
	return pages, nil
}

// Close releases idle connections.
func (c *RemoteClient) Close() {
	c.httpClient.CloseIdleConnections()
}

func fileTypeFor(mediaType string) string {
	switch mediaType {
	case "application/pdf":
		return "PDF"
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	}
	return ""
}

func fileExtFor(mediaType string) string {
	switch mediaType {
	case "application/pdf":
		return "pdf"
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	}
	return "bin"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
