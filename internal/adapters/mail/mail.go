// Package mail delivers digest email over SMTP with implicit TLS
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
)

const (
	defaultHost    = "smtp.gmail.com"
	defaultPort    = 465
	defaultTimeout = 30 * time.Second

	altBoundary = "rzb-alt-7d3f1c"
)

// Options configures the Client
type Options struct {
	Host     string
	Port     int
	Username string
	Password string

	// From defaults to Username when empty
	From string

	Timeout time.Duration
}

// Message is one outbound email
// HTML is the preferred body; Text rides along as the plain fallback
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Client sends messages through a single SMTP endpoint
type Client struct {
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.Host == "" {
		o.Host = defaultHost
	}
	if o.Port <= 0 {
		o.Port = defaultPort
	}
	if o.From == "" {
		o.From = o.Username
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		opts: o,
		log:  *logger.Named("mail"),
		now:  time.Now,
	}
}

// Send delivers m, dialing TLS directly on the configured port
func (c *Client) Send(ctx context.Context, m Message) error {
	if len(m.To) == 0 {
		return perr.InvalidArgf("mail needs at least one recipient")
	}
	if m.HTML == "" && m.Text == "" {
		return perr.InvalidArgf("mail needs a body")
	}
	if c.opts.Username == "" || c.opts.Password == "" {
		return perr.Newf(perr.ErrorCodeUnauthorized, "mail credentials missing")
	}

	addr := net.JoinHostPort(c.opts.Host, strconv.Itoa(c.opts.Port))
	d := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.opts.Timeout},
		Config:    &tls.Config{ServerName: c.opts.Host},
	}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mail dial %s failed", addr)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	cl, err := smtp.NewClient(conn, c.opts.Host)
	if err != nil {
		_ = conn.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mail handshake failed")
	}
	defer func() { _ = cl.Close() }()

	auth := smtp.PlainAuth("", c.opts.Username, c.opts.Password, c.opts.Host)
	if err := cl.Auth(auth); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnauthorized, "mail auth rejected")
	}

	if err := cl.Mail(c.opts.From); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "mail sender %s rejected", c.opts.From)
	}
	for _, rcpt := range m.To {
		if err := cl.Rcpt(rcpt); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "mail recipient %s rejected", rcpt)
		}
	}

	w, err := cl.Data()
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "mail data failed")
	}
	if _, err := w.Write(buildMIME(c.opts.From, m, c.now())); err != nil {
		_ = w.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "mail body write failed")
	}
	if err := w.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "mail body close failed")
	}

	c.log.Info().
		Int("recipients", len(m.To)).
		Str("subject", m.Subject).
		Msg("mail sent")
	return cl.Quit()
}

// buildMIME renders the wire message
// multipart/alternative when both bodies are present, single part otherwise
func buildMIME(from string, m Message, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case m.HTML != "" && m.Text != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", altBoundary)
		fmt.Fprintf(&b, "--%s\r\n", altBoundary)
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(m.Text)
		fmt.Fprintf(&b, "\r\n--%s\r\n", altBoundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(m.HTML)
		fmt.Fprintf(&b, "\r\n--%s--\r\n", altBoundary)
	case m.HTML != "":
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(m.HTML)
		b.WriteString("\r\n")
	default:
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(m.Text)
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}
