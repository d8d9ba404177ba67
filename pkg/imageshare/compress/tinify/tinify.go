// Package tinify compresses images through the Tinify (TinyPNG) REST API.
package tinify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the public Tinify API endpoint
const DefaultBaseURL = "https://api.tinify.com"

// ErrMissingAPIKey indicates no API key was configured
var ErrMissingAPIKey = errors.New("TINIFY_API_KEY is not configured")

// APIError is a non-2xx answer from the Tinify API
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("tinify: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("tinify: %s (status %d): %s", e.Kind, e.Status, e.Message)
}

// Config for the Tinify client
type Config struct {
	APIKey     string
	BaseURL    string       // defaults to DefaultBaseURL
	HTTPClient *http.Client // defaults to http.DefaultClient
}

// Client is an imageshare.Compressor backed by the Tinify API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type shrinkResponse struct {
	Output struct {
		Size int64  `json:"size"`
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"output"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New creates a Tinify client. An empty API key is accepted; Validate and
// Compress report ErrMissingAPIKey so the caller can surface it per request.
func New(config Config) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     strings.TrimSpace(config.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Validate reports whether the client has credentials
func (c *Client) Validate() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Compress uploads data to /shrink and downloads the compressed output
func (c *Client) Compress(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shrink", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create shrink request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var shrink shrinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&shrink); err != nil {
		return nil, fmt.Errorf("failed to decode shrink response: %w", err)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		location = shrink.Output.URL
	}
	if location == "" {
		return nil, errors.New("tinify: shrink response has no output location")
	}

	return c.download(ctx, location)
}

func (c *Client) download(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create output request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read compressed output: %w", err)
	}
	return out, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth("api", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tinify request failed: %w", err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Error != "" || payload.Message != "") {
		apiErr.Kind = payload.Error
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
