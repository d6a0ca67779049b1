package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsSentinel/internal/model"
)

// errorBodyLimit caps how much of a non-200 body is kept in the error.
const errorBodyLimit = 512

// HTTPFetcher fetches news pages by appending the ticker to a base URL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support. A proxy URL without a
// scheme and host is rejected.
func NewHTTPFetcher(baseURL, proxyURL string) (*HTTPFetcher, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		u, err := ParseProxyURL(proxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}, nil
}

// ParseProxyURL parses a proxy address such as http://127.0.0.1:7890.
func ParseProxyURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse proxy url %q: scheme and host are required", raw)
	}
	return u, nil
}

func (f *HTTPFetcher) Name() string { return "http" }

// URLFor returns the page URL for ticker.
func (f *HTTPFetcher) URLFor(ticker model.Ticker) string {
	return f.BaseURL + url.QueryEscape(strings.ToUpper(string(ticker)))
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ticker model.Ticker, userAgent string) (*Document, error) {
	u := f.URLFor(ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, URL: u, Err: err}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("unexpected status %s", resp.Status)
		snippet, rerr := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		switch {
		case rerr != nil:
			statusErr = fmt.Errorf("%w (read body: %v)", statusErr, rerr)
		case len(snippet) > 0:
			statusErr = fmt.Errorf("unexpected status %s, body: %s", resp.Status, strings.TrimSpace(string(snippet)))
		}
		return nil, &FetchError{
			Ticker:     ticker,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        statusErr,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, URL: u, Err: fmt.Errorf("read body: %w", err)}
	}
	return &Document{Ticker: ticker, URL: u, Body: body}, nil
}
