package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AnnotateClient is the alternate remote provider: an image-annotation
// API that accepts base64 image content and returns a flat text
// annotation. It only handles image inputs.
type AnnotateClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewAnnotateClient(endpoint, apiKey string, timeout time.Duration) *AnnotateClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &AnnotateClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// Annotate recognizes text in a single image.
func (c *AnnotateClient) Annotate(ctx context.Context, image []byte) (string, error) {
	req := annotateRequest{
		Requests: []annotateEntry{{
			Image:    annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []annotateFeature{{Type: "TEXT_DETECTION"}},
		}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("annotate service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("annotate service status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed annotateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return "", fmt.Errorf("annotate returned no responses")
	}
	r := parsed.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("annotate error %d: %s", r.Error.Code, r.Error.Message)
	}
	if r.FullTextAnnotation == nil {
		return "", fmt.Errorf("annotate found no text")
	}
	return r.FullTextAnnotation.Text, nil
}

// Close releases idle connections.
func (c *AnnotateClient) Close() {
	c.httpClient.CloseIdleConnections()
}
