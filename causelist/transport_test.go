package causelist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/advocatehq/causelist-http-service/common/config"
)

func testCourtConfig(baseURL string) config.CourtConfig {
	return config.CourtConfig{
		BaseURL:        baseURL,
		UserAgent:      "causelist-test",
		RequestTimeout: 2 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Millisecond,
	}
}

func TestSessionTransportFetch(t *testing.T) {
	const body = `<html><body><table id="dataTable"></table></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/advocateCodeCauseList":
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123"})
			w.Write([]byte(`<html><body><form></form></body></html>`))
		case "/advocateCodeWiseView":
			if r.Method != http.MethodPost {
				t.Errorf("results request method = %s, want POST", r.Method)
			}
			cookie, err := r.Cookie("JSESSIONID")
			if err != nil || cookie.Value != "abc123" {
				t.Error("session cookie from the form page was not carried to the results request")
			}
			if got := r.FormValue("advocateCode"); got != "19272" {
				t.Errorf("advocateCode = %q, want %q", got, "19272")
			}
			if got := r.FormValue("listDate"); got != "28-01-2026" {
				t.Errorf("listDate = %q, want %q", got, "28-01-2026")
			}
			if referer := r.Header.Get("Referer"); !strings.HasSuffix(referer, "/advocateCodeCauseList") {
				t.Errorf("Referer = %q, want form page", referer)
			}
			w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	transport := NewSessionTransport(testCourtConfig(server.URL))
	page, err := transport.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.HTML != body {
		t.Errorf("page HTML = %q, want results body", page.HTML)
	}
	if page.FetchedAt.IsZero() {
		t.Error("FetchedAt is zero")
	}
}

func TestSessionTransportRetriesTransientStatuses(t *testing.T) {
	var postCount int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/advocateCodeCauseList" {
			w.Write([]byte("form"))
			return
		}
		n := atomic.AddInt64(&postCount, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	transport := NewSessionTransport(testCourtConfig(server.URL))
	page, err := transport.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch after transient failures: %v", err)
	}
	if page.HTML != "ok" {
		t.Errorf("page HTML = %q, want %q", page.HTML, "ok")
	}
	if got := atomic.LoadInt64(&postCount); got != 3 {
		t.Errorf("results endpoint hit %d times, want 3", got)
	}
}

func TestSessionTransportExhaustsRetryBudget(t *testing.T) {
	var count int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&count, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	transport := NewSessionTransport(testCourtConfig(server.URL))
	_, err := transport.Fetch(context.Background(), "19272", "28-01-2026")
	if !errors.Is(err, ErrHTTP) {
		t.Fatalf("Fetch error = %v, want %v", err, ErrHTTP)
	}
	// Initial attempt plus three retries on the form page GET.
	if got := atomic.LoadInt64(&count); got != 4 {
		t.Errorf("server hit %d times, want 4", got)
	}
}

func TestSessionTransportDoesNotRetryClientErrors(t *testing.T) {
	var count int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&count, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	transport := NewSessionTransport(testCourtConfig(server.URL))
	_, err := transport.Fetch(context.Background(), "19272", "28-01-2026")
	if !errors.Is(err, ErrHTTP) {
		t.Fatalf("Fetch error = %v, want %v", err, ErrHTTP)
	}
	if got := atomic.LoadInt64(&count); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestSessionTransportTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	cfg := testCourtConfig(server.URL)
	cfg.RequestTimeout = 50 * time.Millisecond

	transport := NewSessionTransport(cfg)
	_, err := transport.Fetch(context.Background(), "19272", "28-01-2026")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Fetch error = %v, want %v", err, ErrTimeout)
	}
}

func TestSessionTransportNetworkError(t *testing.T) {
	// Nothing listens here.
	cfg := testCourtConfig("http://127.0.0.1:1")
	cfg.RetryAttempts = 0

	transport := NewSessionTransport(cfg)
	_, err := transport.Fetch(context.Background(), "19272", "28-01-2026")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Fetch error = %v, want %v", err, ErrNetwork)
	}
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusOK, false},
	}

	for _, tt := range tests {
		if got := retryableStatus(tt.code); got != tt.want {
			t.Errorf("retryableStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
