// Package remote is the HTTP client for the HandWave evaluation and
// configuration service.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ayusman/handwave/internal/config"
	"github.com/ayusman/handwave/internal/engine"
)

// requestTimeout bounds every call; the engine issues evaluate calls
// fire-and-forget and must never be left waiting on a dead connection.
const requestTimeout = 5 * time.Second

// Client talks to the remote evaluation/config service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// evaluateRequest is the wire format for the evaluate endpoint.
type evaluateRequest struct {
	SiteID     string  `json:"site_id"`
	Gesture    string  `json:"gesture"`
	Confidence float64 `json:"confidence"`
}

// Evaluate submits a Navigation-mode gesture for the service's decision.
// It implements engine.Evaluator.
func (c *Client) Evaluate(siteID, gesture string, confidence float64) (engine.EvalResult, error) {
	body, err := json.Marshal(evaluateRequest{
		SiteID:     siteID,
		Gesture:    gesture,
		Confidence: confidence,
	})
	if err != nil {
		return engine.EvalResult{}, fmt.Errorf("marshal evaluate request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+"/api/v1/gesture/evaluate", "application/json", bytes.NewReader(body))
	if err != nil {
		return engine.EvalResult{}, fmt.Errorf("evaluate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.EvalResult{}, fmt.Errorf("evaluate request: status %d", resp.StatusCode)
	}

	var result engine.EvalResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return engine.EvalResult{}, fmt.Errorf("decode evaluate response: %w", err)
	}
	return result, nil
}

// FetchSiteConfig retrieves the raw site configuration payload. Callers pass
// the result to config.Resolve; a fetch error means the session keeps its
// safe baseline.
func (c *Client) FetchSiteConfig(siteID string) (*config.Payload, error) {
	resp, err := c.http.Get(c.baseURL + "/api/v1/config/site/" + url.PathEscape(siteID))
	if err != nil {
		return nil, fmt.Errorf("fetch site config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch site config: status %d", resp.StatusCode)
	}

	var payload config.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	return &payload, nil
}
