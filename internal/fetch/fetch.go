// Package fetch provides the content collaborator: it turns a local file
// path or a product URL into raw HTML. Waiting policy (settle delay,
// timeout) lives here, not in the pipeline.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// DefaultSettleDelay is the extra wait for dynamically rendered content.
const DefaultSettleDelay = 10 * time.Second

// DefaultTimeout is the overall fetch timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for plain HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ProductScraper/1.0)"

// Error represents a failure fetching one source.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	SettleDelay time.Duration
	Timeout     time.Duration
	UserAgent   string
	// UseBrowser renders URLs in a headless browser instead of a plain
	// HTTP GET, which is required for script-rendered product pages.
	UseBrowser bool
	Verbose    bool
}

// DefaultOptions returns sensible defaults: browser rendering on, with the
// standard settle delay and timeout.
func DefaultOptions() *Options {
	return &Options{
		SettleDelay: DefaultSettleDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		UseBrowser:  true,
	}
}

// Client fetches HTML content from files or URLs.
type Client struct {
	opts Options
}

// NewClient builds a Client; nil opts means DefaultOptions.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{opts: *opts}
}

// Content returns HTML for a source. When fromFile is true the source is a
// local path read synchronously; otherwise it is fetched over the network
// with the configured settle delay and timeout.
func (c *Client) Content(ctx context.Context, source string, fromFile bool) (string, error) {
	if fromFile {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", &Error{Source: source, Message: "failed to read file", Cause: err}
		}
		return string(data), nil
	}

	if c.opts.UseBrowser {
		return c.renderURL(ctx, source)
	}
	return c.getURL(ctx, source)
}

// getURL performs a plain HTTP GET. It is sufficient for pages that render
// server-side; script-heavy listings need the browser path.
func (c *Client) getURL(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", &Error{Source: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{
		Timeout: c.opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return "", &Error{Source: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{Source: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Source: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Source: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return string(bodyBytes), nil
}
