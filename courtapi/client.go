// Package courtapi wraps the court's auxiliary public endpoints: the
// CSIS case-status API and the main portal pages. It is independent of
// the causelist scrape pipeline.
package courtapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/go-resty/resty/v2"
)

// Client talks to the CSIS and portal endpoints.
type Client struct {
	cfg  config.CourtConfig
	http *resty.Client
}

// NewClient creates a court API client.
func NewClient(cfg config.CourtConfig) *Client {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Client{
		cfg:  cfg,
		http: client,
	}
}

// CaseDetails fetches case status by type, number and year.
func (c *Client) CaseDetails(ctx context.Context, caseType, caseNumber, caseYear string) (json.RawMessage, error) {
	return c.getJSON(ctx, c.cfg.CsisBaseURL+"/getCaseDetails", map[string]string{
		"mtype": caseType,
		"mno":   caseNumber,
		"myear": caseYear,
	})
}

// AdvocateReport fetches the yearly filing report for an advocate code.
func (c *Client) AdvocateReport(ctx context.Context, advocateCode, year string) (json.RawMessage, error) {
	return c.getJSON(ctx, c.cfg.CsisBaseURL+"/getAdvReport", map[string]string{
		"advcode": advocateCode,
		"year":    year,
	})
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		return nil, classifyProxyError(err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned %d", causelist.ErrHTTP, endpoint, resp.StatusCode())
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s returned a non-JSON body", causelist.ErrParse, endpoint)
	}
	return json.RawMessage(body), nil
}

// SittingArrangement is one published sitting arrangement notice.
type SittingArrangement struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// SittingArrangements scrapes the portal's notification section for
// sitting arrangement links.
func (c *Client) SittingArrangements(ctx context.Context) ([]SittingArrangement, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", "197").
		Get(c.cfg.PortalBaseURL + "/processBodySetionTypes")
	if err != nil {
		return nil, classifyProxyError(err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: portal returned %d", causelist.ErrHTTP, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", causelist.ErrParse, err)
	}

	arrangements := []SittingArrangement{}
	doc.Find("li a").Each(func(_ int, anchor *goquery.Selection) {
		title := strings.Join(strings.Fields(anchor.Text()), " ")
		if !strings.Contains(title, "Sitting Arrangement") {
			return
		}
		href, _ := anchor.Attr("href")
		arrangements = append(arrangements, SittingArrangement{
			Title: title,
			Link:  c.resolveLink(href),
		})
	})

	return arrangements, nil
}

// NoticeMarkdown fetches a portal notice page and converts its body to
// markdown for digest rendering.
func (c *Client) NoticeMarkdown(ctx context.Context, link string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.resolveLink(link))
	if err != nil {
		return "", classifyProxyError(err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: notice page returned %d", causelist.ErrHTTP, resp.StatusCode())
	}

	converter := md.NewConverter(c.cfg.PortalBaseURL, true, nil)
	markdown, err := converter.ConvertString(string(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("%w: converting notice to markdown: %v", causelist.ErrParse, err)
	}
	return markdown, nil
}

// resolveLink makes relative portal links absolute.
func (c *Client) resolveLink(link string) string {
	if link == "" {
		return c.cfg.PortalBaseURL
	}
	parsed, err := url.Parse(link)
	if err != nil || parsed.IsAbs() {
		return link
	}
	base, err := url.Parse(c.cfg.PortalBaseURL)
	if err != nil {
		return link
	}
	return base.ResolveReference(parsed).String()
}

func classifyProxyError(err error) error {
	// Same taxonomy as the causelist transports so handlers map status
	// codes uniformly.
	return causelist.ClassifyTransportError(err)
}
