// Package notifier fans a finished scrape out to its delivery
// channels: a NATS event for external workers and an SMTP digest for
// direct email recipients.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/advocatehq/causelist-http-service/common/messaging"
	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Publisher is the messaging surface the dispatcher needs.
type Publisher interface {
	PublishSync(ctx context.Context, subject string, data []byte) error
}

// Recipient is one email destination for causelist digests.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SendResult records the outcome for one channel and target.
type SendResult struct {
	Channel string
	Target  string
	Err     error
}

// Dispatcher delivers causelist notifications.
type Dispatcher struct {
	broker Publisher
	smtp   config.SmtpConfig

	// sendMail is swappable for tests.
	sendMail func(e *email.Email) error
}

// NewDispatcher creates a dispatcher. The broker may be nil, in which
// case the NATS channel is skipped.
func NewDispatcher(broker Publisher, smtpCfg config.SmtpConfig) *Dispatcher {
	d := &Dispatcher{
		broker: broker,
		smtp:   smtpCfg,
	}
	d.sendMail = d.smtpSend
	return d
}

func (d *Dispatcher) smtpSend(e *email.Email) error {
	var auth smtp.Auth
	if d.smtp.Username != "" {
		auth = smtp.PlainAuth("", d.smtp.Username, d.smtp.Password, d.smtp.Host)
	}
	return e.Send(d.smtp.Addr(), auth)
}

// CauselistReady publishes the ready event and emails the digest to
// every recipient. Channel failures are collected per target, never
// propagated as a single hard error, so one bad mailbox cannot block
// the rest.
func (d *Dispatcher) CauselistReady(ctx context.Context, result causelist.ScrapeResult, snapshotID string, recipients []Recipient) []SendResult {
	results := []SendResult{}

	if d.broker != nil {
		message := messaging.CauselistReadyMessage{
			AdvocateCode: result.AdvocateCode,
			ListDate:     result.Date,
			CaseCount:    result.Count,
			SnapshotID:   snapshotID,
		}
		payload, err := json.Marshal(message)
		if err == nil {
			subject := fmt.Sprintf("%s.%s", messaging.SubjectCauselistReady, result.AdvocateCode)
			err = d.broker.PublishSync(ctx, subject, payload)
		}
		results = append(results, SendResult{Channel: "nats", Target: result.AdvocateCode, Err: err})
	}

	if len(recipients) == 0 {
		return results
	}

	subject := fmt.Sprintf("Causelist for %s on %s: %d case(s)", result.AdvocateCode, result.Date, result.Count)
	body := Digest(result)

	for _, recipient := range recipients {
		e := email.NewEmail()
		e.From = d.smtp.From
		e.To = []string{recipient.Email}
		e.Subject = subject
		e.Text = []byte(body)

		err := d.sendMail(e)
		if err != nil {
			log.Warn().Err(err).Str("recipient", recipient.Email).Msg("Failed to send causelist digest")
		}
		results = append(results, SendResult{Channel: "email", Target: recipient.Email, Err: err})
	}

	return results
}

// CauselistFailed publishes a failure event for a scheduled scrape.
func (d *Dispatcher) CauselistFailed(ctx context.Context, advocateCode, listDate string, scrapeErr error) error {
	if d.broker == nil {
		return nil
	}

	message := messaging.CauselistFailedMessage{
		AdvocateCode: advocateCode,
		ListDate:     listDate,
		Error:        scrapeErr.Error(),
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s.%s", messaging.SubjectCauselistFailed, advocateCode)
	return d.broker.PublishSync(ctx, subject, payload)
}

// Digest renders a plain text summary of a scrape result, one block
// per case grouped under its court heading.
func Digest(result causelist.ScrapeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Causelist for advocate %s, %s\n", result.AdvocateCode, result.Date)
	fmt.Fprintf(&b, "%d case(s) listed\n", result.Count)

	lastCourt := ""
	for _, c := range result.Cases {
		if c.Court != lastCourt {
			fmt.Fprintf(&b, "\n%s\n", c.Court)
			if c.Judge != "" {
				fmt.Fprintf(&b, "%s\n", c.Judge)
			}
			lastCourt = c.Court
		}
		fmt.Fprintf(&b, "\n  %s. %s", c.SerialNumber, c.CaseNumber)
		if c.Stage != "" {
			fmt.Fprintf(&b, " [%s]", c.Stage)
		}
		b.WriteString("\n")
		if c.Petitioner != "" || c.Respondent != "" {
			fmt.Fprintf(&b, "     %s vs %s\n", c.Petitioner, c.Respondent)
		}
		if c.District != "" {
			fmt.Fprintf(&b, "     District: %s\n", c.District)
		}
		if c.Remarks != "" {
			fmt.Fprintf(&b, "     Remarks: %s\n", c.Remarks)
		}
	}

	return b.String()
}
