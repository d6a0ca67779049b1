package collector

import (
	"context"
	"fmt"
	"sync"

	"NewsSentinel/internal/model"
)

// Document is the raw markup fetched for one ticker.
type Document struct {
	Ticker model.Ticker
	URL    string
	Body   []byte
}

// Fetcher retrieves the news document for a ticker. userAgent identifies the client to
// the upstream source, which rejects anonymous requests.
type Fetcher interface {
	Fetch(ctx context.Context, ticker model.Ticker, userAgent string) (*Document, error)
	Name() string
}

// FetchError reports a failed document fetch.
type FetchError struct {
	Ticker     model.Ticker
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d from %s", e.Ticker, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MockFetcher serves fixed documents for development and testing.
type MockFetcher struct {
	Docs   map[model.Ticker]string
	Errors map[model.Ticker]error
	// Calls records the user agent seen per ticker.
	Calls map[model.Ticker]string

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ctx context.Context, ticker model.Ticker, userAgent string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	m.mu.Lock()
	if m.Calls != nil {
		m.Calls[ticker] = userAgent
	}
	m.mu.Unlock()
	if err, ok := m.Errors[ticker]; ok {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	body, ok := m.Docs[ticker]
	if !ok {
		return nil, &FetchError{Ticker: ticker, StatusCode: 404, URL: "mock://" + string(ticker)}
	}
	return &Document{Ticker: ticker, URL: "mock://" + string(ticker), Body: []byte(body)}, nil
}
