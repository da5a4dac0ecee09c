package causelist

// CaseRecord is one row of the advocate-code causelist. Court, judge and
// stage are group context inherited from the most recent header block,
// not repeated per row.
type CaseRecord struct {
	SerialNumber       string   `json:"s_no"`
	CaseNumber         string   `json:"case_no"`
	ConnectedCases     []string `json:"connected_cases"`
	Petitioner         string   `json:"petitioner"`
	Respondent         string   `json:"respondent"`
	PetitionerAdvocate string   `json:"petitioner_advocate"`
	RespondentAdvocate string   `json:"respondent_advocate"`
	District           string   `json:"district"`
	Remarks            string   `json:"remarks"`
	Court              string   `json:"court"`
	Judge              string   `json:"judge"`
	Stage              string   `json:"stage"`
}

// ScrapeResult is the response envelope for one scrape. Cases is never
// nil, even on failure, so callers can treat the envelope uniformly.
type ScrapeResult struct {
	Cases            []CaseRecord `json:"cases"`
	Count            int          `json:"count"`
	TotalCasesHeader int          `json:"total_cases_header,omitempty"`
	AdvocateCode     string       `json:"advocate_code"`
	Date             string       `json:"date"`
	Timestamp        string       `json:"timestamp"`
	Method           string       `json:"method"`
	Error            string       `json:"error,omitempty"`

	// RawHTML is the results page body the cases were parsed from. It is
	// kept for snapshot archival and never serialized.
	RawHTML string `json:"-"`
}
