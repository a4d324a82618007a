// Package llm calls an OpenAI compatible chat completions endpoint
// The summarize pipeline is the only consumer; it feeds transcript text in
// and expects plain prose back, chunking on ErrContextTooLong
package llm

import (
	"bytes"
	"context"
	json "encoding/json/v2"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sliu810/razorback-investing/internal/core/prompts"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4o"
	defaultUA        = "razorback-curator"
	defaultTimeout   = 60 * time.Second
	defaultMaxRetry  = 4
	defaultRetryBase = 2 * time.Second
	defaultMaxTokens = 2000
	defaultTemp      = 0.7
)

// ErrContextTooLong reports a prompt the model refused for size
// Callers split the transcript and retry per chunk
var ErrContextTooLong = perr.New(perr.ErrorCodeInvalidArgument, "prompt exceeds the model context window")

// Options configures the Client
type Options struct {
	BaseURL   string
	APIKey    string
	Model     string
	UserAgent string

	Temperature float64
	MaxTokens   int

	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal chat completions client with bounded retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Temperature <= 0 {
		o.Temperature = defaultTemp
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("llm"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Model reports the configured model identifier for record keeping
func (c *Client) Model() string { return c.opts.Model }

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []prompts.Message `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      prompts.Message `json:"message"`
		FinishReason string          `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends msgs and returns the first choice content
func (c *Client) Complete(ctx context.Context, msgs []prompts.Message) (string, error) {
	if c.opts.APIKey == "" {
		return "", perr.Newf(perr.ErrorCodeUnauthorized, "llm api key missing")
	}
	if len(msgs) == 0 {
		return "", perr.InvalidArgf("llm called with no messages")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "llm request encode failed")
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.opts.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "llm new request failed")
		}
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.opts.UserAgent)

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("llm transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("model", c.opts.Model).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("llm http response")

		switch {
		case resp.StatusCode == http.StatusOK:
			return readCompletion(resp)

		case resp.StatusCode == http.StatusUnauthorized:
			_, msg := readAPIError(resp)
			return "", perr.Newf(perr.ErrorCodeUnauthorized, "llm auth rejected: %s", msg)

		case resp.StatusCode == http.StatusForbidden:
			_, msg := readAPIError(resp)
			return "", perr.Newf(perr.ErrorCodeForbidden, "llm forbidden: %s", msg)

		case resp.StatusCode == http.StatusNotFound:
			_, msg := readAPIError(resp)
			return "", perr.NotFoundf("llm model missing: %s", msg)

		case resp.StatusCode == http.StatusBadRequest:
			code, msg := readAPIError(resp)
			if contextLength(code, msg) {
				return "", perr.Wrapf(ErrContextTooLong, perr.ErrorCodeInvalidArgument,
					"model %s: %s", c.opts.Model, msg)
			}
			return "", perr.InvalidArgf("llm rejected request: %s", msg)

		case resp.StatusCode == http.StatusTooManyRequests:
			_, msg := readAPIError(resp)
			if !c.shouldRetry(attempts) {
				return "", perr.TooManyRequestsf("llm rate limited: %s", msg)
			}
			back := c.backoff(attempts)
			c.log.Warn().Str("reason", msg).Dur("retry_in", back).Int("attempt", attempts).Msg("llm rate limited retrying")
			c.sleep(back)
			attempts++
			continue

		case resp.StatusCode >= 500:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return "", perr.Newf(perr.ErrorCodeUnavailable, "llm transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("llm transient error retrying")
			c.sleep(back)
			attempts++
			continue

		default:
			_, msg := readAPIError(resp)
			return "", perr.Newf(perr.ErrorCodeUnknown, "llm unexpected status %d: %s", resp.StatusCode, msg)
		}
	}
}

func readCompletion(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm read body failed")
	}
	var out chatResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "llm decode failed")
	}
	if len(out.Choices) == 0 {
		return "", perr.Newf(perr.ErrorCodeUnknown, "llm returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// readAPIError drains the error envelope, falling back to the raw body
func readAPIError(resp *http.Response) (code, msg string) {
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil || len(b) == 0 {
		return "", resp.Status
	}
	var e apiError
	if err := json.Unmarshal(b, &e); err == nil && e.Error.Message != "" {
		return e.Error.Code, e.Error.Message
	}
	return "", strings.TrimSpace(string(b))
}

func contextLength(code, msg string) bool {
	if code == "context_length_exceeded" {
		return true
	}
	return strings.Contains(msg, "maximum context length")
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 1<<20))
	return rc.Close()
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
