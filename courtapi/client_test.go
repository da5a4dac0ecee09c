package courtapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
)

func testConfig(baseURL string) config.CourtConfig {
	return config.CourtConfig{
		BaseURL:        baseURL,
		CsisBaseURL:    baseURL,
		PortalBaseURL:  baseURL,
		UserAgent:      "causelist-test",
		RequestTimeout: 2 * time.Second,
	}
}

func TestCaseDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getCaseDetails" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("mtype") != "WP" || q.Get("mno") != "12345" || q.Get("myear") != "2026" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"PENDING","case_no":"WP/12345/2026"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	raw, err := client.CaseDetails(context.Background(), "WP", "12345", "2026")
	if err != nil {
		t.Fatalf("CaseDetails: %v", err)
	}
	if string(raw) != `{"status":"PENDING","case_no":"WP/12345/2026"}` {
		t.Errorf("raw body = %s", raw)
	}
}

func TestCaseDetailsNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.CaseDetails(context.Background(), "WP", "1", "2026")
	if !errors.Is(err, causelist.ErrParse) {
		t.Fatalf("CaseDetails error = %v, want %v", err, causelist.ErrParse)
	}
}

func TestAdvocateReportUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.AdvocateReport(context.Background(), "19272", "2026")
	if !errors.Is(err, causelist.ErrHTTP) {
		t.Fatalf("AdvocateReport error = %v, want %v", err, causelist.ErrHTTP)
	}
}

func TestSittingArrangements(t *testing.T) {
	page := `<html><body><ul>
	<li><a href="/uploads/sitting-aug.pdf">Sitting Arrangement w.e.f 25-08-2026</a></li>
	<li><a href="/uploads/holiday.pdf">Holiday Notification</a></li>
	<li><a href="https://example.org/sitting-sep.pdf">Sitting Arrangement for September</a></li>
	</ul></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/processBodySetionTypes" || r.URL.Query().Get("id") != "197" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	arrangements, err := client.SittingArrangements(context.Background())
	if err != nil {
		t.Fatalf("SittingArrangements: %v", err)
	}

	if len(arrangements) != 2 {
		t.Fatalf("got %d arrangements, want 2", len(arrangements))
	}
	if arrangements[0].Title != "Sitting Arrangement w.e.f 25-08-2026" {
		t.Errorf("first title = %q", arrangements[0].Title)
	}
	if arrangements[0].Link != server.URL+"/uploads/sitting-aug.pdf" {
		t.Errorf("relative link not resolved: %q", arrangements[0].Link)
	}
	if arrangements[1].Link != "https://example.org/sitting-sep.pdf" {
		t.Errorf("absolute link rewritten: %q", arrangements[1].Link)
	}
}

func TestNoticeMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Notice</h1><p>Court closed on <strong>Friday</strong>.</p></body></html>`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	markdown, err := client.NoticeMarkdown(context.Background(), "/notice/1")
	if err != nil {
		t.Fatalf("NoticeMarkdown: %v", err)
	}
	if markdown == "" {
		t.Fatal("empty markdown")
	}
	for _, want := range []string{"# Notice", "**Friday**"} {
		if !strings.Contains(markdown, want) {
			t.Errorf("markdown missing %q:\n%s", want, markdown)
		}
	}
}
