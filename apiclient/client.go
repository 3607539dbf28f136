// Package apiclient talks to the forum REST API. Every call is a single
// attempt: nothing is retried and no timeout is applied unless the
// supplied http.Client carries one.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("session is no longer valid")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response. Err is set to one of the sentinel errors
// for 401, 403 and 404 so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("forum api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("forum api: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error { return e.Err }

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// New returns a client for the API rooted at baseURL. A nil httpClient
// means a client without timeout.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid forum api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid forum api url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("forum api request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}

	c.logger.Debug("forum api response",
		zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

var messageKeys = []string{"error", "detail", "message", "non_field_errors"}

// decodeError understands the error bodies of the forum API: {"error": ...},
// {"detail": ...}, {"non_field_errors": [...]} and per-field lists.
func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status}
	switch status {
	case http.StatusUnauthorized:
		apiErr.Err = ErrUnauthorized
	case http.StatusForbidden:
		apiErr.Err = ErrForbidden
	case http.StatusNotFound:
		apiErr.Err = ErrNotFound
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return apiErr
	}
	for _, key := range messageKeys {
		if value, ok := raw[key]; ok && apiErr.Message == "" {
			apiErr.Message = firstMessage(value)
		}
	}
	for key, value := range raw {
		if slices.Contains(messageKeys, key) {
			continue
		}
		var list []string
		if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 {
			if apiErr.Fields == nil {
				apiErr.Fields = map[string][]string{}
			}
			apiErr.Fields[key] = list
		}
	}
	return apiErr
}

func firstMessage(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
