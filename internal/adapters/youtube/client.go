// Package youtube provides a resilient YouTube Data API v3 client for fetch
package youtube

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	baseURLDefault   = "https://www.googleapis.com/youtube/v3"
	defaultTimeout   = 15 * time.Second
	defaultUA        = "razorback-fetch"
	defaultMaxRetry  = 5
	defaultRetryBase = 500 * time.Millisecond
	defaultRPS       = 8
	defaultBurst     = 16
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Comma separated API keys passed in from CLI or config
	// The client rotates across them and rolls forward on quota errors
	KeysCSV string

	// Retry config for transient and quota limited responses
	MaxRetries int
	RetryBase  time.Duration

	// Client side request pacing
	RPS   float64
	Burst int
}

// Client is a minimal Data API client with key rotation and request pacing
type Client struct {
	http    *http.Client
	opts    Options
	keys    []string
	cur     atomic.Int32
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
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
	if o.RPS <= 0 {
		o.RPS = defaultRPS
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	var keys []string
	if s := strings.TrimSpace(o.KeysCSV); s != "" {
		for k := range strings.SplitSeq(s, ",") {
			k = strings.TrimSpace(k)
			if k != "" {
				keys = append(keys, k)
			}
		}
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		keys:    keys,
		limiter: rate.NewLimiter(rate.Limit(o.RPS), o.Burst),
		log:     *logger.Named("youtube"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// getKey returns the next key in a round robin rotation
func (c *Client) getKey() string {
	n := int(c.cur.Add(1))
	if len(c.keys) == 0 {
		return ""
	}
	return c.keys[n%len(c.keys)]
}

// Do issues a paced GET with key auth, retries, and quota handling
// the caller owns resp.Body on a nil error
func (c *Client) Do(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	attempts := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vals := url.Values{}
		for k, vs := range q {
			vals[k] = vs
		}
		if key := c.getKey(); key != "" {
			vals.Set("key", key)
		}
		u := c.opts.BaseURL + path + "?" + vals.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "youtube new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "youtube do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("youtube transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("youtube http response")

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			reason := readAPIReason(resp)
			if !quotaReason(reason) && resp.StatusCode == http.StatusForbidden {
				return nil, perr.Newf(perr.ErrorCodeForbidden, "youtube forbidden: %s", reason)
			}
			// quota style failure: the next attempt rotates to the next key
			if !c.shouldRetry(attempts) {
				return nil, perr.TooManyRequestsf("youtube quota exhausted: %s", reason)
			}
			back := c.backoff(attempts)
			c.log.Warn().
				Str("reason", reason).
				Dur("retry_in", back).
				Int("attempt", attempts).
				Msg("youtube quota hit rotating key")
			c.sleep(back)
			attempts++
			continue

		case resp.StatusCode == http.StatusNotFound:
			reason := readAPIReason(resp)
			return nil, perr.NotFoundf("youtube resource missing: %s", reason)

		case resp.StatusCode == http.StatusBadRequest:
			reason := readAPIReason(resp)
			return nil, perr.InvalidArgf("youtube rejected request: %s", reason)

		case resp.StatusCode >= 500:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "youtube transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("youtube transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue

		default:
			reason := readAPIReason(resp)
			return nil, perr.Newf(perr.ErrorCodeUnknown, "youtube unexpected status %d: %s", resp.StatusCode, reason)
		}
	}
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
