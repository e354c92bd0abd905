package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// Custom fetch errors.
var (
	ErrHTTPStatus  = errors.New("unexpected HTTP status code")
	ErrHTTPRequest = errors.New("HTTP request creation/execution error")
)

// Reads are capped so a misbehaving image host cannot exhaust memory. Logos
// are small; 32MB is already generous.
const maxBodyBytes = 32 << 20

// Client is the shared HTTP client every source adapter fetches through. It
// applies the per-search timeout, optional proxy and user-agent rotation,
// and honors context cancellation so an early-stopped search abandons its
// in-flight requests.
type Client struct {
	httpClient *http.Client
	rotateUA   bool
}

// BuildTransport returns the base transport for a search, applying the proxy
// from config when enabled. Callers may wrap the result (e.g. with a
// LoggingTransport) before constructing the Client.
func BuildTransport(cfg models.SearchConfig) (http.RoundTripper, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyEnabled && cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.ProxyURL, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		log.Debugf("Routing source requests through proxy %s", cfg.ProxyURL)
	}
	return transport, nil
}

// NewClient creates a Client from the per-search config and a prepared
// transport. A nil transport falls back to the default.
func NewClient(cfg models.SearchConfig, transport http.RoundTripper) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		},
		rotateUA: cfg.UserAgentRotation,
	}
}

// Get fetches a URL and returns the response body. Non-200 responses reduce
// to an ErrHTTPStatus-wrapped error so adapters can treat "not found" and
// "transport failed" uniformly.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for %s: %v", ErrHTTPRequest, rawURL, err)
	}
	req.Header.Set("User-Agent", pickUserAgent(c.rotateUA))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request for %s: %v", ErrHTTPRequest, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: received status %d from %s", ErrHTTPStatus, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body from %s: %v", ErrHTTPRequest, rawURL, err)
	}
	return body, nil
}

// GetJSON fetches a URL and unmarshals the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, v any) error {
	body, err := c.Get(ctx, rawURL, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error unmarshalling response from %s: %w", rawURL, err)
	}
	return nil
}
