package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/dtnitsch/drive-digest/models"
)

// Transport holds SMTP connection settings.
type Transport struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (t Transport) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ResolveTransport returns the override whole when present, otherwise the
// defaults. Fields are never mixed between the two.
func ResolveTransport(override *Transport, defaults Transport) Transport {
	if override != nil {
		return *override
	}
	return defaults
}

// TransportFromConfig builds the default transport from SMTP settings.
func TransportFromConfig(cfg models.SMTPConfig) Transport {
	return Transport{
		Host:     cfg.Server,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
	}
}

type SMTPSender struct {
	transport Transport
	timeout   time.Duration
	tlsConfig *tls.Config
}

// NewSMTPSender returns a sender for t. A zero timeout means none.
func NewSMTPSender(t Transport, timeout time.Duration) *SMTPSender {
	return &SMTPSender{
		transport: t,
		timeout:   timeout,
		tlsConfig: &tls.Config{ServerName: t.Host},
	}
}

func (s *SMTPSender) Channel() string { return ChannelSMTP }

// from is the authenticated user; without credentials the recipient sends
// to itself.
func (s *SMTPSender) from(msg models.Message) string {
	if s.transport.Username != "" {
		return s.transport.Username
	}
	return msg.To
}

func (s *SMTPSender) Send(ctx context.Context, msg models.Message) error {
	if s.transport.Host == "" {
		return fmt.Errorf("smtp server is not configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.transport.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.transport.Addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.transport.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.transport.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errNoAuth
		}
		auth := smtp.PlainAuth("", s.transport.Username, s.transport.Password, s.transport.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from := s.from(msg)
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	raw, err := buildMessage(from, msg, time.Now())
	if err != nil {
		w.Close()
		return err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("end data: %w", err)
	}
	return c.Quit()
}
