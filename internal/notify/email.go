package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const smtpTimeout = 30 * time.Second

// EmailConfig holds the SMTP settings for e-mail notifications.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// UseTLS upgrades the connection with STARTTLS before authenticating.
	UseTLS bool
	// From is the sender address; empty falls back to Username.
	From string
	To   string
}

// EmailNotifier sends schedule updates over SMTP.
type EmailNotifier struct {
	cfg  EmailConfig
	from string
	log  *zap.Logger
}

// NewEmailNotifier validates the SMTP settings and returns a notifier.
func NewEmailNotifier(cfg EmailConfig, log *zap.Logger) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.To == "" {
		return nil, errors.New("notification recipient is required")
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	if from == "" {
		return nil, errors.New("sender address is required (set a from address or smtp user)")
	}
	return &EmailNotifier{cfg: cfg, from: from, log: log}, nil
}

// NotifyUpdate sends one plain-text message describing the change.
func (n *EmailNotifier) NotifyUpdate(ctx context.Context, update Update) error {
	msg := n.buildMessage(update)
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	if err := n.send(ctx, addr, msg); err != nil {
		return fmt.Errorf("sending e-mail via %s: %w", addr, err)
	}
	n.log.Debug("sent e-mail notification", zap.String("to", n.cfg.To))
	return nil
}

// send speaks SMTP by hand so the STARTTLS upgrade and authentication
// stay explicit. The connection deadline stands in for context
// cancellation, which net/smtp does not support directly.
func (n *EmailNotifier) send(ctx context.Context, addr string, msg []byte) error {
	dialer := net.Dialer{Timeout: smtpTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(smtpTimeout))
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if n.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	if err := client.Mail(n.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(n.cfg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}
	return client.Quit()
}

func (n *EmailNotifier) buildMessage(update Update) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", n.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", UpdateSubject(update))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(UpdateBody(update))
	return []byte(b.String())
}
