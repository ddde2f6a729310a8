// Package mail dispatches the reviewer notification with the rendered cover
// sheet attached, plus the best-effort system alert used when that fails.
package mail

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Sender is what the delivery orchestrator depends on; tests substitute it.
type Sender interface {
	// Verify performs the transport preflight before any send is attempted.
	Verify() error
	SendCoverSheet(msg CoverSheet) error
	// SendAlert notifies the maintainer address about a pipeline fault.
	// Best effort: failures are logged, never retried, never propagated.
	SendAlert(subject, body string)
}

// CoverSheet is the reviewer notification payload.
type CoverSheet struct {
	To       string
	Subject  string
	HTMLBody string
	Filename string
	PDF      []byte
}

// Mailer sends over SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	alertTo string
	log     *zap.Logger
}

// NewMailer builds the SMTP mailer. secure selects implicit TLS; STARTTLS is
// negotiated opportunistically either way by the underlying dialer.
func NewMailer(host string, port int, username, password string, secure bool, from, alertTo string, log *zap.Logger) *Mailer {
	d := gomail.NewDialer(host, port, username, password)
	d.SSL = secure
	return &Mailer{dialer: d, from: from, alertTo: alertTo, log: log}
}

// Verify dials the transport and disconnects. A failure here means no send
// should be attempted.
func (m *Mailer) Verify() error {
	closer, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("mail: verify transport: %w", err)
	}
	return closer.Close()
}

// SendCoverSheet delivers the notification with the PDF attached from memory.
func (m *Mailer) SendCoverSheet(msg CoverSheet) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)
	gm.Attach(msg.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(msg.PDF)
		return err
	}))

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("mail: send cover sheet: %w", err)
	}
	return nil
}

// SendAlert emails the maintainer. Allowed to fail silently apart from a log
// entry; alerting about a failed alert has nowhere useful to go.
func (m *Mailer) SendAlert(subject, body string) {
	if m.alertTo == "" {
		return
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", m.alertTo)
	gm.SetHeader("Subject", subject)
	gm.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		m.log.Warn("system alert email failed", zap.Error(err))
	}
}
