package auth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	gomail "gopkg.in/gomail.v2"
)

// ResetEmailSubject is the subject line for password recovery messages.
const ResetEmailSubject = "Reset Your Password"

// SMTPNotifier delivers email over an authenticated SMTP connection.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger Logger
}

// NewSMTPNotifier configures a Notifier from SMTP credentials. The from
// address is used verbatim as the sender header.
func NewSMTPNotifier(host string, port int, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: defLogger{},
	}
}

func (n *SMTPNotifier) WithLogger(logger Logger) *SMTPNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// Send delivers a single HTML email. gomail dials per message; the context
// is only consulted before the blocking send starts.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled before email delivery")
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Error("smtp delivery failed", "to", to, "error", err)
		return errors.Wrap(err, ErrDeliveryFailed.Category, ErrDeliveryFailed.Message).
			WithTextCode(ErrDeliveryFailed.TextCode).
			WithCode(errors.CodeInternal)
	}

	return nil
}

var _ Notifier = (*SMTPNotifier)(nil)

// ResetEmailBody renders the HTML body around the recovery link.
func ResetEmailBody(resetLink string) string {
	return fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Click the link below to reset your password:</p>
		<a href="%s">%s</a>
		<p>This link expires in 5 minutes.</p>
	`, resetLink, resetLink)
}
