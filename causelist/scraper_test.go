package causelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type stubTransport struct {
	method string
	page   Page
	err    error
	calls  int
}

func (s *stubTransport) Method() string {
	return s.method
}

func (s *stubTransport) Fetch(ctx context.Context, advocateCode, listDate string) (Page, error) {
	s.calls++
	if s.err != nil {
		return Page{}, s.err
	}
	return s.page, nil
}

func fixturePage() Page {
	return Page{HTML: resultsPage, FetchedAt: time.Date(2026, 1, 28, 9, 30, 0, 0, time.UTC)}
}

func TestScraperFetchSuccess(t *testing.T) {
	session := &stubTransport{method: MethodSession, page: fixturePage()}
	scraper, err := NewScraper(session)
	if err != nil {
		t.Fatalf("NewScraper: %v", err)
	}

	result, err := scraper.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if result.Count != 3 || len(result.Cases) != 3 {
		t.Errorf("count = %d, len(cases) = %d, want 3 and 3", result.Count, len(result.Cases))
	}
	if result.TotalCasesHeader != 3 {
		t.Errorf("total_cases_header = %d, want 3", result.TotalCasesHeader)
	}
	if result.AdvocateCode != "19272" || result.Date != "28-01-2026" {
		t.Errorf("echo fields = (%q, %q)", result.AdvocateCode, result.Date)
	}
	if result.Method != MethodSession {
		t.Errorf("method = %q, want %q", result.Method, MethodSession)
	}
	if result.Timestamp != "2026-01-28 09:30:00" {
		t.Errorf("timestamp = %q", result.Timestamp)
	}
	if result.Error != "" {
		t.Errorf("error = %q, want empty", result.Error)
	}
	if result.RawHTML == "" {
		t.Error("raw page body was not retained")
	}
}

func TestScraperFetchValidation(t *testing.T) {
	session := &stubTransport{method: MethodSession, page: fixturePage()}
	scraper, _ := NewScraper(session)

	tests := []struct {
		name         string
		advocateCode string
		listDate     string
	}{
		{"empty code", "", "28-01-2026"},
		{"alphabetic code", "abc", "28-01-2026"},
		{"code with slash", "19272/A", "28-01-2026"},
		{"bad date format", "19272", "2026-01-28"},
		{"impossible date", "19272", "45-13-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scraper.Fetch(context.Background(), tt.advocateCode, tt.listDate)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Fetch error = %v, want %v", err, ErrValidation)
			}
			if result.Cases == nil {
				t.Error("cases slice is nil on validation failure")
			}
			if result.Error == "" {
				t.Error("envelope error is empty on validation failure")
			}
			if session.calls != 0 {
				t.Error("transport was called for invalid input")
			}
		})
	}
}

func TestScraperEscalatesOnTransportFailure(t *testing.T) {
	session := &stubTransport{method: MethodSession, err: fmt.Errorf("%w: connection refused", ErrNetwork)}
	browser := &stubTransport{method: MethodBrowser, page: fixturePage()}

	scraper, _ := NewScraper(session, browser)
	result, err := scraper.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if session.calls != 1 || browser.calls != 1 {
		t.Errorf("calls = (%d, %d), want both transports tried once", session.calls, browser.calls)
	}
	if result.Method != MethodBrowser {
		t.Errorf("method = %q, want %q", result.Method, MethodBrowser)
	}
	if result.Count != 3 {
		t.Errorf("count = %d, want 3", result.Count)
	}
}

func TestScraperEscalatesWhenNoTablesRecovered(t *testing.T) {
	// A 2xx body with neither layout present and no empty marker,
	// typical of script-rendered content.
	session := &stubTransport{
		method: MethodSession,
		page:   Page{HTML: `<html><body><div id="app"></div></body></html>`, FetchedAt: time.Now()},
	}
	browser := &stubTransport{method: MethodBrowser, page: fixturePage()}

	scraper, _ := NewScraper(session, browser)
	result, err := scraper.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if browser.calls != 1 {
		t.Error("browser transport was not tried")
	}
	if result.Method != MethodBrowser {
		t.Errorf("method = %q, want %q", result.Method, MethodBrowser)
	}
}

func TestScraperEmptyListIsSuccess(t *testing.T) {
	session := &stubTransport{
		method: MethodSession,
		page:   Page{HTML: `<html><body><p>No records found for the selected date</p></body></html>`, FetchedAt: time.Now()},
	}
	browser := &stubTransport{method: MethodBrowser, page: fixturePage()}

	scraper, _ := NewScraper(session, browser)
	result, err := scraper.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if browser.calls != 0 {
		t.Error("escalated on a legitimately empty list")
	}
	if result.Count != 0 || len(result.Cases) != 0 {
		t.Errorf("count = %d, len(cases) = %d, want empty success", result.Count, len(result.Cases))
	}
	if result.Error != "" {
		t.Errorf("error = %q, want empty", result.Error)
	}
}

func TestScraperAllTransportsFail(t *testing.T) {
	session := &stubTransport{method: MethodSession, err: fmt.Errorf("%w: deadline exceeded", ErrTimeout)}
	browser := &stubTransport{method: MethodBrowser, err: fmt.Errorf("%w: deadline exceeded", ErrTimeout)}

	scraper, _ := NewScraper(session, browser)
	result, err := scraper.Fetch(context.Background(), "19272", "28-01-2026")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Fetch error = %v, want %v", err, ErrTimeout)
	}

	if result.Cases == nil || result.Count != 0 {
		t.Errorf("failure envelope = %+v, want empty cases and zero count", result)
	}
	if result.Error == "" {
		t.Error("envelope error is empty after total failure")
	}
	if result.AdvocateCode != "19272" || result.Date != "28-01-2026" {
		t.Error("failure envelope does not echo the request parameters")
	}
}

func TestScraperFallsBackToLegacyLayout(t *testing.T) {
	legacyPage := `<html><body>
	<table>
	  <tr><th>S.No</th><th>Case Number</th><th>Petitioner</th><th>Respondent</th></tr>
	  <tr><td>1</td><td>WP/100/2026</td><td>A KUMAR</td><td>STATE</td></tr>
	</table>
	</body></html>`

	session := &stubTransport{method: MethodSession, page: Page{HTML: legacyPage, FetchedAt: time.Now()}}
	scraper, _ := NewScraper(session)

	result, err := scraper.Fetch(context.Background(), "19272", "28-01-2026")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("count = %d, want 1", result.Count)
	}
	if result.Cases[0].CaseNumber != "WP/100/2026" {
		t.Errorf("case number = %q", result.Cases[0].CaseNumber)
	}
}

func TestScrapeResultJSONNeverNullCases(t *testing.T) {
	result := errorResult("19272", "28-01-2026", MethodSession, errors.New("boom"))

	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(encoded), `"cases":null`) {
		t.Errorf("cases serialized as null: %s", encoded)
	}
	if !strings.Contains(string(encoded), `"cases":[]`) {
		t.Errorf("cases missing from envelope: %s", encoded)
	}
}

func TestValidateRequest(t *testing.T) {
	if err := ValidateRequest("19272", "28-01-2026"); err != nil {
		t.Errorf("ValidateRequest(valid) = %v", err)
	}
	if err := ValidateRequest("19272", "31-02-2026"); !errors.Is(err, ErrValidation) {
		t.Errorf("ValidateRequest(impossible date) = %v, want %v", err, ErrValidation)
	}
}
