package causelist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DateLayout is the court's DD-MM-YYYY list date format.
const DateLayout = "02-01-2006"

const timestampLayout = "2006-01-02 15:04:05"

var advocateCodeRe = regexp.MustCompile(`^\d+$`)

// Page texts the site uses for dates with no published list.
var emptyMarkers = []string{"no record", "no data", "not found"}

// Scraper runs the fetch-parse-aggregate pipeline across an ordered
// list of transports. Later transports are escalation strategies, tried
// only when the one before them fails or returns a page no parser can
// recover tables from.
type Scraper struct {
	transports []Transport
}

// NewScraper creates a scraper over the given transports, tried in order.
func NewScraper(transports ...Transport) (*Scraper, error) {
	if len(transports) == 0 {
		return nil, errors.New("at least one transport is required")
	}
	return &Scraper{transports: transports}, nil
}

// ValidateRequest rejects malformed input before any network call is
// made. Advocate codes are digits only; dates are DD-MM-YYYY.
func ValidateRequest(advocateCode, listDate string) error {
	if advocateCode == "" {
		return fmt.Errorf("%w: advocate code is required", ErrValidation)
	}
	if !advocateCodeRe.MatchString(advocateCode) {
		return fmt.Errorf("%w: advocate code must be numeric", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, listDate); err != nil {
		return fmt.Errorf("%w: list date must be DD-MM-YYYY", ErrValidation)
	}
	return nil
}

// Fetch scrapes the causelist for one advocate code and list date. The
// envelope is always well-formed with a non-nil Cases slice. The error
// return classifies failures for callers (errors.Is against the package
// sentinels); when it is non-nil the envelope carries the same failure
// in its Error field.
func (s *Scraper) Fetch(ctx context.Context, advocateCode, listDate string) (ScrapeResult, error) {
	if err := ValidateRequest(advocateCode, listDate); err != nil {
		return errorResult(advocateCode, listDate, "", err), err
	}

	var lastErr error
	lastMethod := ""

	for i, transport := range s.transports {
		lastMethod = transport.Method()

		page, err := transport.Fetch(ctx, advocateCode, listDate)
		if err != nil {
			log.Warn().Err(err).
				Str("advocateCode", advocateCode).
				Str("method", transport.Method()).
				Msg("Transport failed")
			lastErr = err
			continue
		}

		out, err := parseDocument(page.HTML)
		if err != nil {
			lastErr = err
			continue
		}

		if out.tableCount == 0 {
			if hasEmptyMarker(page.HTML) {
				return successResult(out, advocateCode, listDate, transport.Method(), page), nil
			}

			legacy, legacyErr := parseLegacyDocument(page.HTML)
			if legacyErr == nil && len(legacy.cases) > 0 {
				out = legacy
			} else if i < len(s.transports)-1 {
				// Neither layout produced tables from a 2xx body, which
				// usually means the content is rendered client side.
				lastErr = fmt.Errorf("%w: no result tables in response", ErrParse)
				continue
			}
		}

		if out.totalCases > 0 && out.totalCases != len(out.cases) {
			log.Warn().
				Str("advocateCode", advocateCode).
				Int("headerTotal", out.totalCases).
				Int("parsed", len(out.cases)).
				Msg("Parsed case count differs from page header total")
		}

		return successResult(out, advocateCode, listDate, transport.Method(), page), nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no result tables in response", ErrParse)
	}
	return errorResult(advocateCode, listDate, lastMethod, lastErr), lastErr
}

func hasEmptyMarker(pageHTML string) bool {
	lowered := strings.ToLower(pageHTML)
	for _, marker := range emptyMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func successResult(out parseOutput, advocateCode, listDate, method string, page Page) ScrapeResult {
	cases := out.cases
	if cases == nil {
		cases = []CaseRecord{}
	}
	return ScrapeResult{
		Cases:            cases,
		Count:            len(cases),
		TotalCasesHeader: out.totalCases,
		AdvocateCode:     advocateCode,
		Date:             listDate,
		Timestamp:        page.FetchedAt.Format(timestampLayout),
		Method:           method,
		RawHTML:          page.HTML,
	}
}

func errorResult(advocateCode, listDate, method string, err error) ScrapeResult {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return ScrapeResult{
		Cases:        []CaseRecord{},
		Count:        0,
		AdvocateCode: advocateCode,
		Date:         listDate,
		Timestamp:    time.Now().Format(timestampLayout),
		Method:       method,
		Error:        message,
	}
}
