package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Config for SMTP delivery. Transport security is always required.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// SMTPMailer sends a report in a single attempt over an authenticated SMTP
// session with mandatory TLS.
type SMTPMailer struct {
	config Config
}

// NewSMTPMailer validates the delivery settings. Host, From and To are
// required; port defaults to 587 and the timeout to 30s.
func NewSMTPMailer(config Config) (*SMTPMailer, error) {
	if config.Host == "" || config.From == "" || config.To == "" {
		return nil, fmt.Errorf("mail config incomplete: host, from and to are required")
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &SMTPMailer{config: config}, nil
}

// Send delivers htmlBody as a text/html message.
func (m *SMTPMailer) Send(subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.config.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(m.config.To); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	client, err := gomail.NewClient(m.config.Host,
		gomail.WithPort(m.config.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.config.Username),
		gomail.WithPassword(m.config.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(m.config.Timeout),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending report: %w", err)
	}
	return nil
}
