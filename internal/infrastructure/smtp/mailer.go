package smtp

import (
	"crypto/rand"
	"fmt"
	"net/smtp"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/config"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/oklog/ulid/v2"
)

// Mailer sends emails. SendEmail either succeeds atomically and returns an
// opaque message id for logging, or fails; callers wrap failures as
// domain.ErrMailerUnavailable so delivery faults stay distinct from
// validation and storage faults.
type Mailer interface {
	SendEmail(to, subject, body string) (messageID string, err error)
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, body string) (string, error) {
	messageID := ulid.MustNew(ulid.Now(), rand.Reader).String()
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMessage-Id: <%s@%s>\r\n\r\n%s",
		m.from, to, subject, messageID, m.host, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return "", fmt.Errorf("send mail: %v: %w", err, domain.ErrMailerUnavailable)
	}
	return messageID, nil
}
