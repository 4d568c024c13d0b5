package providers

import (
	"context"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"
)

var (
	emojiCode = regexp.MustCompile(`:[a-z0-9_+-]+:`)
	markup    = strings.NewReplacer("*", "", "_", "")
)

// SMTPSender mails announcements via SMTP
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, username, password, from, to string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		send:     smtp.SendMail,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send mails text as a plain text message. The subject is the first line
// with Slack markup stripped.
func (s *SMTPSender) Send(_ context.Context, text string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	if err := s.send(addr, auth, s.from, []string{s.to}, s.message(text)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) message(text string) []byte {
	subject, _, _ := strings.Cut(text, "\n")
	subject = emojiCode.ReplaceAllString(subject, "")
	subject = strings.TrimRight(markup.Replace(subject), ": ")
	if subject == "" {
		subject = "Lunch menu"
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", s.to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
	msg.WriteString("\r\n")
	return []byte(msg.String())
}
