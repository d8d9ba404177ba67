// Package vercelblob writes objects to a Vercel Blob store over its REST API.
package vercelblob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tendant/imageshare/pkg/imageshare"
)

const (
	// DefaultAPIURL is the Vercel Blob API endpoint
	DefaultAPIURL = "https://blob.vercel-storage.com"

	apiVersion = "7"
)

// ErrMissingToken indicates BLOB_READ_WRITE_TOKEN is not configured
var ErrMissingToken = errors.New("BLOB_READ_WRITE_TOKEN is not configured")

// Config for the Vercel Blob backend
type Config struct {
	Token      string
	APIURL     string       // defaults to DefaultAPIURL
	HTTPClient *http.Client // defaults to http.DefaultClient
}

// Backend is a Vercel Blob implementation of the imageshare.BlobStore interface
type Backend struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

type putResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a Vercel Blob backend
func New(config Config) *Backend {
	apiURL := strings.TrimSuffix(config.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Backend{
		token:      strings.TrimSpace(config.Token),
		apiURL:     apiURL,
		httpClient: httpClient,
	}
}

// Put uploads params.Data under params.ObjectKey without a random suffix.
// Blob stores are always public; params.Public is not sent.
func (b *Backend) Put(ctx context.Context, params imageshare.PutParams) (*imageshare.PutResult, error) {
	if b.token == "" {
		return nil, ErrMissingToken
	}
	if params.ObjectKey == "" {
		return nil, errors.New("object key is required")
	}

	endpoint := b.apiURL + "/?" + url.Values{"pathname": {params.ObjectKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(params.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to create put request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("x-add-random-suffix", "0")
	if params.ContentType != "" {
		req.Header.Set("x-content-type", params.ContentType)
	}
	if maxAge, ok := maxAgeSeconds(params.CacheControl); ok {
		req.Header.Set("x-cache-control-max-age", strconv.FormatInt(maxAge, 10))
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vercel blob put failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read put response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorResponse
		if json.Unmarshal(body, &payload) == nil && payload.Error.Message != "" {
			return nil, fmt.Errorf("vercel blob put failed with status %d: %s", resp.StatusCode, payload.Error.Message)
		}
		return nil, fmt.Errorf("vercel blob put failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out putResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode put response: %w", err)
	}
	if out.URL == "" {
		return nil, errors.New("vercel blob put response has no url")
	}

	return &imageshare.PutResult{URL: out.URL, Size: int64(len(params.Data))}, nil
}

// maxAgeSeconds extracts max-age from a Cache-Control value
func maxAgeSeconds(cacheControl string) (int64, bool) {
	for _, directive := range strings.Split(cacheControl, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		seconds, err := strconv.ParseInt(value, 10, 64)
		if err != nil || seconds < 0 {
			return 0, false
		}
		return seconds, true
	}
	return 0, false
}
