package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	defaultTimeout   = 30 * time.Second
	maxBodyBytes     = 10 * 1024 * 1024 // 10 MB
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// ErrFetch wraps every content resolution failure: network errors,
// timeouts, non-2xx responses and pages with no extractable text.
var ErrFetch = errors.New("fetch failed")

// Options controls how article content is fetched and extracted.
type Options struct {
	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration

	// Mode selects how the response body is turned into content.
	Mode Mode

	// MaxWords truncates the content to this many words. Zero keeps
	// everything.
	MaxWords int

	// UserAgent overrides the browser-like default.
	UserAgent string
}

// Fetcher resolves article URLs to text. Every call is a single attempt;
// there is no retry.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// NewFetcher creates a Fetcher with an HTTP client configured from opts.
// Zero values fall back to a 30-second timeout, raw mode and a browser-like
// user agent.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeRaw
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &userAgentTransport{
				base:      http.DefaultTransport,
				userAgent: opts.UserAgent,
			},
		},
		opts: opts,
	}
}

// userAgentTransport wraps an http.RoundTripper to inject browser-like
// headers on every request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	return t.base.RoundTrip(req)
}

// Resolve fetches articleURL with one GET request and returns its content
// according to the configured extraction mode. Failures wrap ErrFetch.
func (f *Fetcher) Resolve(ctx context.Context, articleURL string) (string, error) {
	body, err := f.get(ctx, articleURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	content, err := extract(f.opts.Mode, body, articleURL)
	if err != nil {
		return "", fmt.Errorf("%w: extracting %q: %w", ErrFetch, articleURL, err)
	}

	if f.opts.MaxWords > 0 {
		content = truncateWords(content, f.opts.MaxWords)
	}

	slog.Debug("resolved article",
		"url", articleURL,
		"mode", f.opts.Mode,
		"bytes", len(content),
		"words", countWords(content),
	)
	return content, nil
}

// get performs the GET request and returns the body decoded to UTF-8 using
// the charset declared by the response.
func (f *Fetcher) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %q: %w", pageURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %q: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %q: HTTP %d", pageURL, resp.StatusCode)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding body from %q: %w", pageURL, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading body from %q: %w", pageURL, err)
	}
	return string(body), nil
}
