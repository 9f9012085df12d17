// Package notify sends owner notifications by e-mail.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/simp-lee/folio/internal/config"
	"github.com/simp-lee/folio/internal/domain"
)

const sendTimeout = 15 * time.Second

// Mailer delivers contact notifications over SMTP.
type Mailer struct {
	cfg       config.MailConfig
	siteTitle string
	baseURL   string
	send      func(ctx context.Context, msg *mail.Msg) error
}

// New returns a ContactNotifier for cfg. When mail is disabled the notifier
// only logs.
func New(cfg config.MailConfig, site config.SiteConfig) domain.ContactNotifier {
	if !cfg.Enabled {
		return Noop{}
	}
	m := &Mailer{cfg: cfg, siteTitle: site.Title, baseURL: strings.TrimRight(site.BaseURL, "/")}
	m.send = m.dialAndSend
	return m
}

// NotifyContact e-mails the site owner about msg. Replies go to the sender.
func (m *Mailer) NotifyContact(ctx context.Context, msg *domain.ContactMessage) error {
	out, err := m.contactMessage(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := m.send(ctx, out); err != nil {
		return err
	}
	slog.InfoContext(ctx, "contact notification sent", slog.String("message_id", msg.ID))
	return nil
}

func (m *Mailer) contactMessage(msg *domain.ContactMessage) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := out.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	if err := out.ReplyTo(msg.Email); err != nil {
		return nil, fmt.Errorf("set reply-to address: %w", err)
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New message from " + msg.Name
	}
	if m.siteTitle != "" {
		subject = "[" + m.siteTitle + "] " + subject
	}
	out.Subject(subject)

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\n", msg.Name, msg.Email)
	if msg.Subject != "" {
		fmt.Fprintf(&body, "Subject: %s\n", msg.Subject)
	}
	body.WriteString("\n")
	body.WriteString(msg.Message)
	body.WriteString("\n")
	if m.baseURL != "" {
		fmt.Fprintf(&body, "\n-- \nSent from %s\n", m.baseURL)
	}
	out.SetBodyString(mail.TypeTextPlain, body.String())
	return out, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(tlsPolicy(m.cfg.TLS)),
		mail.WithTLSConfig(&tls.Config{ServerName: m.cfg.Host}),
		mail.WithTimeout(sendTimeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client for %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}

// tlsPolicy maps the configured policy name. Unknown values use mandatory TLS.
func tlsPolicy(name string) mail.TLSPolicy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "opportunistic":
		return mail.TLSOpportunistic
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSMandatory
	}
}

// Noop is the notifier used when mail is disabled.
type Noop struct{}

// NotifyContact logs the message ID.
func (Noop) NotifyContact(ctx context.Context, msg *domain.ContactMessage) error {
	slog.DebugContext(ctx, "mail disabled, skipping contact notification", slog.String("message_id", msg.ID))
	return nil
}
