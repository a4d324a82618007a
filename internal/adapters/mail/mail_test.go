package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
)

func TestSend_Preconditions(t *testing.T) {
	t.Parallel()

	c := NewClient(Options{Username: "u@example.com", Password: "pw"})

	err := c.Send(context.Background(), Message{Subject: "s", HTML: "<p>x</p>"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("no recipients err = %v, want invalid argument", err)
	}

	err = c.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "s"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("no body err = %v, want invalid argument", err)
	}

	bare := NewClient(Options{})
	err = bare.Send(context.Background(), Message{To: []string{"a@b.c"}, HTML: "<p>x</p>"})
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("missing creds err = %v, want unauthorized", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Options{Username: "digest@example.com", Password: "pw"})
	if c.opts.Host != "smtp.gmail.com" || c.opts.Port != 465 {
		t.Fatalf("defaults = %s:%d", c.opts.Host, c.opts.Port)
	}
	if c.opts.From != "digest@example.com" {
		t.Fatalf("From = %q, want username fallback", c.opts.From)
	}
}

func TestBuildMIME_Alternative(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	msg := Message{
		To:      []string{"one@example.com", "two@example.com"},
		Subject: "summaries_cnbc_tv_2025-03-07",
		HTML:    "<h1>Digest</h1>",
		Text:    "Digest",
	}

	got := string(buildMIME("digest@example.com", msg, now))

	for _, want := range []string{
		"From: digest@example.com\r\n",
		"To: one@example.com, two@example.com\r\n",
		"Subject: summaries_cnbc_tv_2025-03-07\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: multipart/alternative",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Type: text/html; charset=UTF-8",
		"<h1>Digest</h1>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("mime missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "--\r\n") {
		t.Fatalf("mime not terminated: %q", got[len(got)-40:])
	}
}

func TestBuildMIME_HTMLOnly(t *testing.T) {
	t.Parallel()

	msg := Message{To: []string{"one@example.com"}, Subject: "s", HTML: "<p>only</p>"}
	got := string(buildMIME("digest@example.com", msg, time.Now()))

	if strings.Contains(got, "multipart/alternative") {
		t.Fatalf("single body should not be multipart:\n%s", got)
	}
	if !strings.Contains(got, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>only</p>") {
		t.Fatalf("html part malformed:\n%s", got)
	}
}
