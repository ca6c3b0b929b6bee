package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/config"
	"gopkg.in/gomail.v2"
)

// maxMessageBytes is the rendered-message size ceiling. Send reports
// an oversized message as not-sent instead of failing.
const maxMessageBytes = 25 << 20

// Mailer is the outbound email port.
type Mailer interface {
	Send(to, subject, body string) (bool, error)
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	domain string
	logger zerolog.Logger
}

func NewSMTPMailer(cfg config.EmailConfig, logger zerolog.Logger) (Mailer, error) {
	host := strings.TrimSpace(cfg.SMTPHost)
	from := strings.TrimSpace(cfg.From)
	if host == "" {
		return nil, fmt.Errorf("smtp_host is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from address is required")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}

	domain := from
	if at := strings.LastIndex(from, "@"); at >= 0 {
		domain = from[at+1:]
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, cfg.Username, cfg.Password),
		from:   from,
		domain: domain,
		logger: logger.With().Str("component", "mailer").Logger(),
	}, nil
}

func (m *smtpMailer) Send(to, subject, body string) (bool, error) {
	if len(subject)+len(body) > maxMessageBytes {
		m.logger.Warn().Str("to", to).Int("bytes", len(subject)+len(body)).Msg("message exceeds size ceiling, not sent")
		return false, nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.New().String(), m.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return false, err
	}

	m.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return true, nil
}
