package causelist

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Method tags recorded in the result envelope.
const (
	MethodSession = "requests-session"
	MethodBrowser = "browser"
)

// Page is a fetched results document.
type Page struct {
	HTML      string
	FetchedAt time.Time
}

// Transport fetches the raw causelist results page for one advocate
// code and list date. Implementations must honor ctx cancellation and
// map failures onto the package error taxonomy.
type Transport interface {
	Method() string
	Fetch(ctx context.Context, advocateCode, listDate string) (Page, error)
}

// SessionTransport drives the search form over plain HTTP: a GET on the
// form page establishes the session cookie, then a POST submits the
// search. Each Fetch gets a fresh cookie jar so sessions never leak
// between invocations.
type SessionTransport struct {
	cfg config.CourtConfig
}

// NewSessionTransport creates a session transport for the configured site.
func NewSessionTransport(cfg config.CourtConfig) *SessionTransport {
	return &SessionTransport{cfg: cfg}
}

// Method implements Transport.
func (t *SessionTransport) Method() string {
	return MethodSession
}

// Fetch implements Transport. On a certificate verification failure the
// request is retried once with verification disabled. The relaxed
// client is built per call and only ever talks to the causelist host,
// so the exemption cannot bleed into other destinations.
func (t *SessionTransport) Fetch(ctx context.Context, advocateCode, listDate string) (Page, error) {
	page, err := t.fetch(ctx, advocateCode, listDate, false)
	if err != nil && isCertificateError(err) {
		log.Warn().
			Str("host", t.cfg.BaseURL).
			Msg("Certificate verification failed, retrying without verification")
		return t.fetch(ctx, advocateCode, listDate, true)
	}
	return page, err
}

func (t *SessionTransport) fetch(ctx context.Context, advocateCode, listDate string, skipVerify bool) (Page, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating cookie jar: %w", err)
	}

	client := resty.New().
		SetCookieJar(jar).
		SetTimeout(t.cfg.RequestTimeout).
		SetHeader("User-Agent", t.cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetRetryCount(t.cfg.RetryAttempts).
		SetRetryWaitTime(t.cfg.RetryDelay).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return retryableStatus(r.StatusCode())
		})

	if skipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	resp, err := client.R().
		SetContext(ctx).
		Get(t.cfg.FormURL())
	if err != nil {
		return Page{}, ClassifyTransportError(err)
	}
	if resp.IsError() {
		return Page{}, fmt.Errorf("%w: form page returned %d", ErrHTTP, resp.StatusCode())
	}

	resp, err = client.R().
		SetContext(ctx).
		SetHeader("Referer", t.cfg.FormURL()).
		SetFormData(map[string]string{
			"advocateCode": advocateCode,
			"listDate":     listDate,
		}).
		Post(t.cfg.ResultURL())
	if err != nil {
		return Page{}, ClassifyTransportError(err)
	}
	if resp.IsError() {
		return Page{}, fmt.Errorf("%w: results page returned %d", ErrHTTP, resp.StatusCode())
	}

	return Page{HTML: string(resp.Body()), FetchedAt: time.Now()}, nil
}

// retryableStatus reports whether a status code indicates a transient
// upstream condition worth retrying. Other 4xx are final.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ClassifyTransportError maps an HTTP client failure onto the package
// taxonomy: deadline and network timeouts become ErrTimeout, everything
// else ErrNetwork.
func ClassifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

func isCertificateError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidCert x509.CertificateInvalidError
	return errors.As(err, &invalidCert)
}
