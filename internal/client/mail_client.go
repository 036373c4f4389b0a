package client

import (
	"context"
	"fmt"
	"log"

	mail "github.com/wneessen/go-mail"

	"github.com/pdfcourier/api/internal/config"
)

// MailSender defines the interface for outbound delivery mail
type MailSender interface {
	SendArchive(ctx context.Context, msg *ArchiveMail) error
}

// ArchiveMail is a delivery notice with one archive attachment
type ArchiveMail struct {
	To          string
	Subject     string
	Body        string
	ArchivePath string
	ArchiveName string
}

// SMTPMailer implements MailSender over SMTP
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer creates a new SMTP mail client
func NewSMTPMailer(cfg *config.MailConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("mail configuration incomplete")
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
	}, nil
}

// SendArchive mails one archive to the recipient
func (m *SMTPMailer) SendArchive(ctx context.Context, am *ArchiveMail) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender %s: %w", m.from, err)
	}
	if err := msg.To(am.To); err != nil {
		return fmt.Errorf("invalid recipient %s: %w", am.To, err)
	}
	msg.Subject(am.Subject)
	msg.SetBodyString(mail.TypeTextHTML, am.Body)
	msg.AttachFile(am.ArchivePath, mail.WithFileName(am.ArchiveName))

	log.Printf("[Mailer] → %s (%s)", am.To, am.ArchiveName)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Printf("[Mailer] ✗ send to %s failed: %v", am.To, err)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Printf("[Mailer] ← delivered to %s", am.To)
	return nil
}

// IsConfigured returns true if the client has valid configuration
func (m *SMTPMailer) IsConfigured() bool {
	return m.client != nil && m.from != ""
}
