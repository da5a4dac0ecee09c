package causelist

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseLegacyDocument handles the older results layout: plain tables
// without the dataTable id or header blocks, columns laid out
// positionally. It is the fallback when the current layout yields no
// tables at all.
func parseLegacyDocument(pageHTML string) (parseOutput, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return parseOutput{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := parseOutput{cases: []CaseRecord{}}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		out.tableCount++

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			// Row zero is the column header.
			if i == 0 {
				return
			}
			record, ok := parseLegacyRow(row)
			if ok {
				out.cases = append(out.cases, record)
			}
		})
	})

	return out, nil
}

func parseLegacyRow(row *goquery.Selection) (CaseRecord, bool) {
	cells := row.Find("td, th")
	if cells.Length() < 2 {
		return CaseRecord{}, false
	}

	texts := make([]string, cells.Length())
	cells.Each(func(i int, cell *goquery.Selection) {
		texts[i] = collapseSpace(cell.Text())
	})

	caseNumber := texts[1]
	lowered := strings.ToLower(caseNumber)
	if strings.Contains(lowered, "case number") || strings.Contains(lowered, "s.no") {
		return CaseRecord{}, false
	}
	if !strings.Contains(caseNumber, "/") {
		return CaseRecord{}, false
	}

	record := CaseRecord{
		SerialNumber:   texts[0],
		CaseNumber:     caseNumber,
		ConnectedCases: []string{},
	}

	if len(texts) > 2 {
		record.Petitioner = texts[2]
	}
	if len(texts) > 3 {
		record.Respondent = texts[3]
	}
	if len(texts) > 4 {
		record.Court = texts[4]
	}
	if len(texts) > 5 {
		record.Judge = texts[5]
	}
	// Column six is the hearing time, not carried on the record.
	if len(texts) > 7 {
		record.Stage = texts[7]
	}

	return record, true
}
