package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/jordan-wright/email"
)

type stubPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (s *stubPublisher) PublishSync(ctx context.Context, subject string, data []byte) error {
	s.subjects = append(s.subjects, subject)
	s.payloads = append(s.payloads, data)
	return s.err
}

func sampleResult() causelist.ScrapeResult {
	return causelist.ScrapeResult{
		Cases: []causelist.CaseRecord{
			{
				SerialNumber: "1",
				CaseNumber:   "WP/12345/2026",
				Petitioner:   "K RAMESH",
				Respondent:   "STATE OF TELANGANA",
				Court:        "IN THE COURT NO. 12",
				Judge:        "THE HONOURABLE SRI JUSTICE A. RAO",
				Stage:        "FOR ADMISSION",
				District:     "HYDERABAD",
			},
			{
				SerialNumber: "2",
				CaseNumber:   "CRLP/881/2026",
				Petitioner:   "B SURESH",
				Respondent:   "STATE",
				Court:        "IN THE COURT NO. 12",
				Stage:        "FOR ORDERS",
			},
		},
		Count:        2,
		AdvocateCode: "19272",
		Date:         "28-01-2026",
		Method:       causelist.MethodSession,
	}
}

func TestCauselistReadyPublishesAndEmails(t *testing.T) {
	broker := &stubPublisher{}
	dispatcher := NewDispatcher(broker, config.SmtpConfig{From: "causelist@example.org"})

	var sent []*email.Email
	dispatcher.sendMail = func(e *email.Email) error {
		sent = append(sent, e)
		return nil
	}

	recipients := []Recipient{
		{Name: "Ramesh", Email: "ramesh@example.org"},
		{Name: "Suresh", Email: "suresh@example.org"},
	}

	results := dispatcher.CauselistReady(context.Background(), sampleResult(), "snap-1", recipients)

	if len(broker.subjects) != 1 || broker.subjects[0] != "causelist.ready.19272" {
		t.Errorf("published subjects = %v", broker.subjects)
	}
	if len(sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sent))
	}
	if sent[0].From != "causelist@example.org" {
		t.Errorf("email from = %q", sent[0].From)
	}
	if !strings.Contains(sent[0].Subject, "19272") {
		t.Errorf("email subject = %q", sent[0].Subject)
	}

	// One NATS result plus one per recipient, all successful.
	if len(results) != 3 {
		t.Fatalf("got %d send results, want 3", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("channel %s target %s failed: %v", r.Channel, r.Target, r.Err)
		}
	}
}

func TestCauselistReadyCollectsPerRecipientFailures(t *testing.T) {
	dispatcher := NewDispatcher(nil, config.SmtpConfig{From: "causelist@example.org"})

	failFor := "bad@example.org"
	dispatcher.sendMail = func(e *email.Email) error {
		if e.To[0] == failFor {
			return errors.New("mailbox unavailable")
		}
		return nil
	}

	recipients := []Recipient{
		{Email: "good@example.org"},
		{Email: failFor},
	}

	results := dispatcher.CauselistReady(context.Background(), sampleResult(), "", recipients)
	if len(results) != 2 {
		t.Fatalf("got %d send results, want 2", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("good recipient failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("bad recipient did not surface its failure")
	}
}

func TestDigest(t *testing.T) {
	digest := Digest(sampleResult())

	for _, want := range []string{
		"advocate 19272",
		"2 case(s) listed",
		"IN THE COURT NO. 12",
		"WP/12345/2026 [FOR ADMISSION]",
		"K RAMESH vs STATE OF TELANGANA",
		"District: HYDERABAD",
	} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q:\n%s", want, digest)
		}
	}

	// The shared court heading appears once.
	if strings.Count(digest, "IN THE COURT NO. 12") != 1 {
		t.Errorf("court heading repeated:\n%s", digest)
	}
}

func TestCauselistFailedPublishes(t *testing.T) {
	broker := &stubPublisher{}
	dispatcher := NewDispatcher(broker, config.SmtpConfig{})

	err := dispatcher.CauselistFailed(context.Background(), "19272", "28-01-2026", errors.New("court website timed out"))
	if err != nil {
		t.Fatalf("CauselistFailed: %v", err)
	}
	if len(broker.subjects) != 1 || broker.subjects[0] != "causelist.failed.19272" {
		t.Errorf("published subjects = %v", broker.subjects)
	}
	if !strings.Contains(string(broker.payloads[0]), "timed out") {
		t.Errorf("payload = %s", broker.payloads[0])
	}
}
