// Package fetch implements the Fetcher interface over HTTP.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gaurav-prasanna/coursepipe/core"
)

const defaultTimeout = 30 * time.Second

// browserHeaders mimic a desktop browser; learn.microsoft.com serves
// stripped-down markup to unknown user agents.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client *resty.Client
}

// New creates an HTTPFetcher with browser-like headers and a sensible
// timeout.
func New() *HTTPFetcher {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetHeaders(browserHeaders)
	return &HTTPFetcher{client: client}
}

// Fetch retrieves the HTML content of the given URL. Any transport error
// or non-2xx status is reported as an error; the caller decides whether
// it is fatal for its rank.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), url)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode(),
		HTML:       string(resp.Body()),
	}, nil
}
