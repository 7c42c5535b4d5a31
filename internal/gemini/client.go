package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoAPIKey is returned when the key resolver yields an empty key.
var ErrNoAPIKey = errors.New("gemini api key is not configured")

// upstreamErrorFallback is used when the provider's error body carries no
// extractable message.
const upstreamErrorFallback = "Gemini API responded with an error."

// KeyFunc resolves the provider credential at call time.
type KeyFunc func() string

// Client is a client for the Gemini generateContent REST API.
// The API key is resolved per call and attached as a query parameter; it is
// never echoed back to callers or written to logs.
type Client struct {
	BaseURL string
	APIKey  KeyFunc
	client  *http.Client
}

// NewClient creates a new Gemini client with a bounded request timeout.
func NewClient(baseURL string, apiKey KeyFunc, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateContent posts body to the generateContent endpoint for the given
// model and returns the parsed response. body is any JSON-marshalable
// payload with the provider's request shape; the gateway passes client
// payloads through opaquely while the orchestrator sends a *GenerateRequest.
//
// A non-2xx provider reply is returned as a *UpstreamError carrying the
// provider's status code and best-effort extracted message.
func (c *Client) GenerateContent(ctx context.Context, model string, body any) (*GenerateResponse, error) {
	key := c.APIKey()
	if key == "" {
		return nil, ErrNoAPIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.BaseURL, url.PathEscape(model), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", sanitizeError(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", sanitizeError(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(raw),
		}
	}

	var out GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	out.Raw = raw

	return &out, nil
}

// sanitizeError strips the query string from URL-bearing transport errors.
// The endpoint carries the API key as a query parameter, and url.Error
// messages echo the full URL; callers surface these errors to clients.
func sanitizeError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if i := strings.IndexByte(uerr.URL, '?'); i >= 0 {
			uerr.URL = uerr.URL[:i]
		}
	}
	return err
}

// extractErrorMessage pulls the nested error.message out of a provider error
// body, falling back to a generic string when the shape doesn't match.
func extractErrorMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error.Message == "" {
		return upstreamErrorFallback
	}
	return body.Error.Message
}
