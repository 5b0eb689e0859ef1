package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig holds settings for the email channel.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPChannel delivers alerts by email over plain SMTP with AUTH PLAIN.
type SMTPChannel struct {
	config SMTPConfig
}

// NewSMTPChannel creates a new SMTPChannel
func NewSMTPChannel(config SMTPConfig) *SMTPChannel {
	return &SMTPChannel{config: config}
}

// Send emails the alert to the given address. The context deadline is not
// honored below the SMTP dial; callers treat failures as non-fatal anyway.
func (c *SMTPChannel) Send(ctx context.Context, address, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", address)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	addr := c.config.Host + ":" + c.config.Port
	auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)

	if err := smtp.SendMail(addr, auth, c.config.From, []string{address}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
