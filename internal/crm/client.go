// Package crm talks to the CRM HTTP API. It is a thin collaborator:
// failures are surfaced verbatim and never retried here.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with the CRM HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UpdateError carries the upstream status and body of a failed CRM
// call, unmasked.
type UpdateError struct {
	CompanyID  string
	StatusCode int
	Body       string
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("crm update company %s: status %d: %s", e.CompanyID, e.StatusCode, e.Body)
}

type updateCompanyRequest struct {
	Name string `json:"name"`
}

// UpdateCompanyName PATCHes the company's display name field.
func (c *Client) UpdateCompanyName(ctx context.Context, companyID, name string) error {
	body, err := json.Marshal(updateCompanyRequest{Name: name})
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	endpoint := c.baseURL + "/companies/" + url.PathEscape(companyID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("crm update company %s: %w", companyID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &UpdateError{
			CompanyID:  companyID,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	return nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
