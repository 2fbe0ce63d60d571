// Package mailer delivers rendered notification emails over SMTP.
//
// Without configured credentials the mailer runs in log-only mode: every
// send is logged instead of delivered, which keeps development and CI
// environments working with no mail account.
package mailer

import (
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"
)

// Transport sends one rendered email. The notification worker depends on
// this interface so tests can substitute a recorder.
type Transport interface {
	Send(to, subject, htmlBody string) error
}

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Timeout bounds the whole SMTP exchange. Zero means 10s.
	Timeout time.Duration
}

// SMTPMailer sends HTML mail through an SMTP relay with STARTTLS.
type SMTPMailer struct {
	cfg Config
}

// New creates a mailer. Empty credentials select log-only mode.
func New(cfg Config) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Username == "" || cfg.Password == "" {
		log.Printf("[Mailer] SMTP credentials not configured, running in log-only mode")
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message. In log-only mode the message is logged and
// dropped. The connection and the full exchange share one deadline so a
// stalled relay cannot hang the worker.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		log.Printf("[Mailer] Would send email to %s: %s", to, subject)
		log.Printf("[Mailer] Email body: %s", htmlBody)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, m.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(m.cfg.Timeout)); err != nil {
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.cfg.From, to, subject, htmlBody)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	log.Printf("[Mailer] Email sent to %s", to)
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s\r\n",
		from, to, subject, htmlBody)
	return []byte(msg)
}
