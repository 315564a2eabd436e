package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"

	"gopkg.in/gomail.v2"
)

// Notifier attempts delivery of a notification and reports the outcome as a
// human-readable status. It never returns an error; a failed send is a
// degraded status, not a request failure.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) (bool, string)
}

type MailNotifier struct {
	cfg config.MailConfig
}

func NewMailNotifier(cfg config.MailConfig) *MailNotifier {
	return &MailNotifier{cfg: cfg}
}

func (n *MailNotifier) Send(ctx context.Context, recipient, subject, body string) (bool, string) {
	if recipient == "" {
		return false, "Recipient email is empty"
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Sprintf("Failed to send email: %v", err)
	}

	// Demo safeguard: redirect everything to the configured dummy recipient
	// so generated notifications never reach real customers.
	to := recipient
	if n.cfg.DummyRecipient != "" {
		to = n.cfg.DummyRecipient
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.cfg.SenderAddress, n.cfg.SenderDisplayName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SenderAddress, n.cfg.SenderPassword)
	if err := d.DialAndSend(m); err != nil {
		return false, fmt.Sprintf("Failed to send email: %v", err)
	}
	return true, "Email sent successfully"
}

var placeholderPattern = regexp.MustCompile(`\[([A-Za-z][A-Za-z0-9_]*)\]`)

// SubstitutePlaceholders replaces [Name] tokens in a notification field with
// values from the first result row. A placeholder resolves against the row
// by exact column name, case-insensitive name, or the snake_case form of a
// CamelCase name ([ClientName] matches client_name). Unresolved tokens are
// left in place so the recipient can see what was missing.
func SubstitutePlaceholders(text string, row models.Row) string {
	if len(row) == 0 {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := resolvePlaceholder(name, row); ok {
			return value
		}
		return token
	})
}

func resolvePlaceholder(name string, row models.Row) (string, bool) {
	if v, ok := row.Get(name); ok {
		return fmt.Sprintf("%v", v), true
	}
	lower := strings.ToLower(name)
	snake := camelToSnake(name)
	for _, f := range row {
		colLower := strings.ToLower(f.Name)
		if colLower == lower || colLower == snake {
			return fmt.Sprintf("%v", f.Value), true
		}
	}
	return "", false
}

func camelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
