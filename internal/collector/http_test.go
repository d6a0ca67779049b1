package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestFetcher(t *testing.T, base string) *HTTPFetcher {
	t.Helper()
	f, err := NewHTTPFetcher(base, "")
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	return f
}

// failingBody errors on the first read.
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return fn(r) }

func TestHTTPFetcher_SendsUserAgent(t *testing.T) {
	var gotUA, gotTicker string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotTicker = r.URL.Query().Get("t")
		w.Write([]byte(newsPage))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL+"/quote.ashx?t=")
	doc, err := f.Fetch(context.Background(), "amzn", "my-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != "my-app" {
		t.Errorf("expected User-Agent my-app, got %q", gotUA)
	}
	if gotTicker != "AMZN" {
		t.Errorf("expected ticker AMZN, got %q", gotTicker)
	}
	if string(doc.Body) != newsPage {
		t.Error("unexpected document body")
	}
	if doc.Ticker != "amzn" {
		t.Errorf("expected document ticker amzn, got %q", doc.Ticker)
	}
}

func TestHTTPFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("  blocked by firewall\n"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(t, srv.URL+"/?t=").Fetch(context.Background(), "GOOG", "")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", fe.StatusCode)
	}
	if fe.Ticker != "GOOG" {
		t.Errorf("expected ticker GOOG, got %q", fe.Ticker)
	}
	if !strings.Contains(fe.Error(), "body: blocked by firewall") {
		t.Errorf("expected body snippet in error, got %v", fe)
	}
}

func TestHTTPFetcher_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL + "/?t="
	srv.Close()

	_, err := newTestFetcher(t, base).Fetch(context.Background(), "FB", "x")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("expected no status code, got %d", fe.StatusCode)
	}
}

func TestHTTPFetcher_NonOKBodyReadError(t *testing.T) {
	f := newTestFetcher(t, "http://finviz.test/?t=")
	f.Client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Status:     "502 Bad Gateway",
			Body:       failingBody{},
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	_, err := f.Fetch(context.Background(), "AMZN", "")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", fe.StatusCode)
	}
	if !strings.Contains(fe.Error(), "read body: connection reset") {
		t.Errorf("expected body read failure in error, got %v", fe)
	}
}

func TestNewHTTPFetcher_Proxy(t *testing.T) {
	f, err := NewHTTPFetcher("http://finviz.test/?t=", "http://127.0.0.1:7890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, "http://finviz.test/?t=AMZN", nil)
	proxy, err := f.Client.Transport.(*http.Transport).Proxy(req)
	if err != nil || proxy == nil || proxy.Host != "127.0.0.1:7890" {
		t.Errorf("expected proxy 127.0.0.1:7890, got %v (%v)", proxy, err)
	}

	for _, bad := range []string{"127.0.0.1:7890", "not a proxy", "http://%zz"} {
		if _, err := NewHTTPFetcher("http://finviz.test/?t=", bad); err == nil {
			t.Errorf("expected error for proxy %q", bad)
		}
	}
}
