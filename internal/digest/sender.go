package digest

import (
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"coinhealth-api/internal/config"
)

// SMTPSettings is the resolved delivery config after applying any overrides
// stored in the app_settings table on top of the static config.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

// ResolveSMTP layers database overrides over the file config. Settings keys
// match the seeded defaults (SMTP_HOST, SMTP_PORT, SMTP_USERNAME,
// SMTP_PASSWORD, SMTP_FROM_EMAIL, EMAIL_ENABLED).
func ResolveSMTP(base config.SMTPConf, overrides map[string]string) SMTPSettings {
	out := SMTPSettings{
		Host:     base.Host,
		Port:     base.Port,
		Username: base.Username,
		Password: base.Password,
		From:     base.FromEmail,
		Enabled:  base.Enabled,
	}
	if v, ok := overrides["SMTP_HOST"]; ok && v != "" {
		out.Host = v
	}
	if v, ok := overrides["SMTP_PORT"]; ok && v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			out.Port = port
		}
	}
	if v, ok := overrides["SMTP_USERNAME"]; ok && v != "" {
		out.Username = v
	}
	if v, ok := overrides["SMTP_PASSWORD"]; ok && v != "" {
		out.Password = v
	}
	if v, ok := overrides["SMTP_FROM_EMAIL"]; ok && v != "" {
		out.From = v
	}
	if v, ok := overrides["EMAIL_ENABLED"]; ok && v != "" {
		out.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	return out
}

// Sender delivers digest mail over plain SMTP with AUTH PLAIN.
type Sender struct {
	settings SMTPSettings
}

// NewSender builds a sender from resolved settings.
func NewSender(settings SMTPSettings) *Sender {
	return &Sender{settings: settings}
}

// Send delivers one message. Returns an error when delivery is disabled or
// the settings are incomplete, so callers can log and skip.
func (s *Sender) Send(to, subject, body string) error {
	if !s.settings.Enabled {
		return fmt.Errorf("email delivery is disabled")
	}
	if s.settings.Host == "" || s.settings.From == "" {
		return fmt.Errorf("smtp settings incomplete: host and from address are required")
	}

	addr := fmt.Sprintf("%s:%d", s.settings.Host, s.settings.Port)
	var auth smtp.Auth
	if s.settings.Username != "" {
		auth = smtp.PlainAuth("", s.settings.Username, s.settings.Password, s.settings.Host)
	}

	msg := strings.Join([]string{
		"From: " + s.settings.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.settings.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send digest to %s: %w", to, err)
	}
	return nil
}
