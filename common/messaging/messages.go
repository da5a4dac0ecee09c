package messaging

// CauselistReadyMessage is published when a watched advocate's causelist
// has been scraped and stored. External delivery workers (WhatsApp,
// push) subscribe to these subjects.
type CauselistReadyMessage struct {
	AdvocateCode string `json:"advocate_code"`
	ListDate     string `json:"list_date"`
	CaseCount    int    `json:"case_count"`
	SnapshotID   string `json:"snapshot_id,omitempty"`
}

// CauselistFailedMessage is published when a scheduled scrape fails.
type CauselistFailedMessage struct {
	AdvocateCode string `json:"advocate_code"`
	ListDate     string `json:"list_date"`
	Error        string `json:"error"`
}

// Constants for NATS subjects
const (
	StreamCauselist = "CAUSELIST"

	SubjectCauselistReady  = "causelist.ready"
	SubjectCauselistFailed = "causelist.failed"
)
