package causelist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var totalCasesRe = regexp.MustCompile(`TOTAL CASES FOR\s+\d+\s*=\s*(\d+)`)

const (
	stageHighlightColor    = "color:#c90d1f"
	districtHighlightColor = "color:#1e74cf"
)

// groupContext is the court/judge/stage state inherited by case rows.
// Values come from header blocks and stage markers interleaved with the
// rows; each value sticks until a later marker overrides it, including
// across table boundaries.
type groupContext struct {
	court string
	judge string
	stage string
}

func (g groupContext) merge(h groupContext) groupContext {
	if h.court != "" {
		g.court = h.court
	}
	if h.judge != "" {
		g.judge = h.judge
	}
	if h.stage != "" {
		g.stage = h.stage
	}
	return g
}

// parseOutput carries everything recovered from one results document.
type parseOutput struct {
	cases      []CaseRecord
	tableCount int
	totalCases int
}

// parseDocument walks every results table in document order, threading
// the group context through so rows pick up the court and judge
// announced above them. Rows that do not yield a valid case record are
// skipped without aborting the walk.
func parseDocument(pageHTML string) (parseOutput, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return parseOutput{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := parseOutput{cases: []CaseRecord{}}

	if m := totalCasesRe.FindStringSubmatch(doc.Text()); m != nil {
		out.totalCases, _ = strconv.Atoi(m[1])
	}

	group := groupContext{}
	doc.Find("table#dataTable").Each(func(_ int, table *goquery.Selection) {
		out.tableCount++
		group = group.merge(tableHeader(table))

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			record, ok := parseRow(row, &group)
			if ok {
				out.cases = append(out.cases, record)
			}
		})
	})

	return out, nil
}

// tableHeader locates the header block describing a results table. The
// block is a thead inside the table or, on older markup, the nearest
// thead preceding it in the document.
func tableHeader(table *goquery.Selection) groupContext {
	head := table.Find("thead").First()
	if head.Length() == 0 {
		head = precedingThead(table)
	}
	if head == nil || head.Length() == 0 {
		return groupContext{}
	}

	var h groupContext
	head.Find("div").Each(func(_ int, div *goquery.Selection) {
		if div.Children().Length() > 0 {
			return
		}
		text := collapseSpace(div.Text())
		if text == "" {
			return
		}
		style, _ := div.Attr("style")
		switch {
		case h.court == "" && strings.Contains(text, "COURT NO."):
			h.court = text
		case h.judge == "" && strings.Contains(text, "THE HONOURABLE"):
			h.judge = text
		case h.stage == "" && strings.Contains(style, stageHighlightColor):
			h.stage = text
		}
	})
	return h
}

// precedingThead walks backwards from the table through the document
// tree and returns the closest thead that ends before the table starts.
func precedingThead(table *goquery.Selection) *goquery.Selection {
	if len(table.Nodes) == 0 {
		return nil
	}
	for n := table.Nodes[0]; n != nil; {
		prev := n.PrevSibling
		if prev == nil {
			n = n.Parent
			continue
		}
		n = prev
		if found := lastTheadIn(n); found != nil {
			return goquery.NewDocumentFromNode(found).Selection
		}
	}
	return nil
}

func lastTheadIn(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "thead" {
		return n
	}
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if found := lastTheadIn(c); found != nil {
			return found
		}
	}
	return nil
}

// parseRow extracts one case record. Stage marker rows update the group
// context and contribute no record. Rows with fewer than six cells or
// without a slash in the case number are skipped.
func parseRow(row *goquery.Selection, group *groupContext) (CaseRecord, bool) {
	if marker := row.Find("span.stage-name"); marker.Length() > 0 {
		if text := collapseSpace(marker.First().Text()); text != "" {
			group.stage = text
		}
		return CaseRecord{}, false
	}

	cells := row.Find("td")
	if cells.Length() < 6 {
		return CaseRecord{}, false
	}

	caseCell := cells.Eq(1)
	caseNumber := collapseSpace(caseCell.Find("a#caseNumber").First().Text())
	if caseNumber == "" {
		caseNumber = collapseSpace(caseCell.Text())
	}
	if !strings.Contains(caseNumber, "/") {
		return CaseRecord{}, false
	}

	connected := []string{}
	caseCell.Find("div[data-case-id]").Each(func(_ int, div *goquery.Selection) {
		if text := collapseSpace(div.Text()); text != "" {
			connected = append(connected, text)
		}
	})

	petitioner, respondent := splitParties(cellLines(cells.Eq(2)))
	district, remarks := districtAndRemarks(cells.Eq(5))

	return CaseRecord{
		SerialNumber:       collapseSpace(cells.Eq(0).Text()),
		CaseNumber:         caseNumber,
		ConnectedCases:     connected,
		Petitioner:         petitioner,
		Respondent:         respondent,
		PetitionerAdvocate: collapseSpace(cells.Eq(3).Text()),
		RespondentAdvocate: collapseSpace(cells.Eq(4).Text()),
		District:           district,
		Remarks:            remarks,
		Court:              group.court,
		Judge:              group.judge,
		Stage:              group.stage,
	}, true
}

// splitParties divides the party cell lines at the first separator line
// ("vs", "v/s" or "versus" in any casing). Lines before it form the
// petitioner, lines after it the respondent; the separator line itself
// is dropped. Without a separator line both fields stay empty.
func splitParties(lines []string) (string, string) {
	for i, line := range lines {
		if isPartySeparator(line) {
			return strings.Join(lines[:i], " "), strings.Join(lines[i+1:], " ")
		}
	}
	return "", ""
}

func isPartySeparator(line string) bool {
	for _, token := range strings.Fields(strings.ToLower(line)) {
		switch strings.TrimRight(token, ".") {
		case "vs", "v/s", "versus":
			return true
		}
	}
	return false
}

// districtAndRemarks reads the sixth cell. The district is the styled
// highlight div when present, otherwise the whole cell; remarks come
// from the first styled div that is not the district highlight.
func districtAndRemarks(cell *goquery.Selection) (string, string) {
	var district, remarks string
	cell.Find("div").Each(func(_ int, div *goquery.Selection) {
		style, styled := div.Attr("style")
		text := collapseSpace(div.Text())
		if text == "" {
			return
		}
		if strings.Contains(style, districtHighlightColor) {
			if district == "" {
				district = text
			}
			return
		}
		if styled && remarks == "" {
			remarks = text
		}
	})
	if district == "" {
		district = collapseSpace(cell.Text())
	}
	return district, remarks
}

// cellLines returns the cell's non-empty text segments, one per text
// node, preserving the line breaks the markup encodes with <br> and
// nested elements.
func cellLines(cell *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := collapseSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range cell.Nodes {
		walk(n)
	}
	return lines
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
