package causelist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// locator is one way of finding a form element on the search page.
type locator struct {
	name     string
	selector string
}

// Candidate locators are tried in order; the first match wins. Adding a
// new strategy for a markup change means appending to these lists.
var (
	advocateInputLocators = []locator{
		{"name attribute", `input[name="advocateCode"]`},
		{"element id", `#advocateCode`},
		{"partial name", `input[name*="advocate"]`},
		{"first text input", `form input[type="text"]`},
	}

	dateInputLocators = []locator{
		{"name attribute", `input[name="listDate"]`},
		{"element id", `#listDate`},
		{"date type", `input[type="date"]`},
	}

	submitLocators = []locator{
		{"submit button", `button[type="submit"]`},
		{"submit input", `input[type="submit"]`},
		{"search value", `input[value="Search"]`},
	}
)

// BrowserTransport fetches the results page through a headless browser.
// It is the escalation strategy for when the plain session transport
// fails or the site starts requiring script execution.
type BrowserTransport struct {
	cfg config.CourtConfig
}

// NewBrowserTransport creates a browser transport for the configured site.
func NewBrowserTransport(cfg config.CourtConfig) *BrowserTransport {
	return &BrowserTransport{cfg: cfg}
}

// Method implements Transport.
func (t *BrowserTransport) Method() string {
	return MethodBrowser
}

// Fetch implements Transport. The browser is launched per invocation
// and closed on every exit path.
func (t *BrowserTransport) Fetch(ctx context.Context, advocateCode, listDate string) (Page, error) {
	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return Page{}, fmt.Errorf("%w: launching browser: %v", ErrNetwork, err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Page{}, fmt.Errorf("%w: connecting to browser: %v", ErrNetwork, err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close browser")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: t.cfg.FormURL()})
	if err != nil {
		return Page{}, classifyBrowserError(ctx, err)
	}
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return Page{}, classifyBrowserError(ctx, err)
	}

	codeInput, err := findElement(page, advocateInputLocators)
	if err != nil {
		return Page{}, fmt.Errorf("%w: advocate code field: %v", ErrParse, err)
	}
	if err := codeInput.Input(advocateCode); err != nil {
		return Page{}, classifyBrowserError(ctx, err)
	}

	if dateInput, err := findElement(page, dateInputLocators); err == nil {
		if err := dateInput.Input(listDate); err != nil {
			return Page{}, classifyBrowserError(ctx, err)
		}
	} else {
		log.Debug().Msg("No date field found, site defaults to today")
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if submit, err := findElement(page, submitLocators); err == nil {
		if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return Page{}, classifyBrowserError(ctx, err)
		}
	} else {
		// No recognizable submit control, fall back to pressing enter in
		// the focused field.
		if err := page.Keyboard.Press(input.Enter); err != nil {
			return Page{}, classifyBrowserError(ctx, err)
		}
	}
	wait()

	if err := page.WaitStable(time.Second); err != nil {
		return Page{}, classifyBrowserError(ctx, err)
	}

	pageHTML, err := page.HTML()
	if err != nil {
		return Page{}, classifyBrowserError(ctx, err)
	}

	return Page{HTML: pageHTML, FetchedAt: time.Now()}, nil
}

// findElement tries each candidate locator with a short per-candidate
// deadline and returns the first element found.
func findElement(page *rod.Page, candidates []locator) (*rod.Element, error) {
	for _, loc := range candidates {
		element, err := page.Timeout(2 * time.Second).Element(loc.selector)
		if err != nil {
			continue
		}
		log.Debug().
			Str("strategy", loc.name).
			Str("selector", loc.selector).
			Msg("Located form element")
		return element, nil
	}
	return nil, errors.New("no locator strategy matched")
}

func classifyBrowserError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
