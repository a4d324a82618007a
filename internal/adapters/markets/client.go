// Package markets fetches daily OHLCV bars from the Stooq CSV endpoint
// Stooq serves free end-of-day history without a key, which is all the
// price pipeline needs
package markets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
)

const (
	baseURLDefault   = "https://stooq.com"
	defaultUA        = "razorback-prices"
	defaultTimeout   = 15 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = time.Second
	defaultMaxDelay  = 10 * time.Second
)

// Bar is one daily OHLCV row
type Bar struct {
	Day    time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	MaxRetries int
	RetryBase  time.Duration
	MaxDelay   time.Duration
}

// Client downloads daily bar CSV with bounded retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
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
	if o.MaxDelay <= 0 {
		o.MaxDelay = defaultMaxDelay
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("markets"),
		sleep: time.Sleep,
	}
}

// DailyBars returns bars for symbol between from and to inclusive,
// in the order Stooq serves them (oldest first)
func (c *Client) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, perr.InvalidArgf("markets symbol required")
	}

	q := url.Values{}
	q.Set("s", StooqSymbol(symbol))
	q.Set("d1", from.Format("20060102"))
	q.Set("d2", to.Format("20060102"))
	q.Set("i", "d")
	u := c.opts.BaseURL + "/q/d/l/?" + q.Encode()

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return c.parseCSV(symbol, body)
}

// get fetches u, doubling the delay between attempts up to MaxDelay
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	delay := c.opts.RetryBase

	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "markets new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			b, rerr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			if rerr != nil {
				return nil, perr.Wrapf(rerr, perr.ErrorCodeUnavailable, "markets read body failed")
			}
			return b, nil
		}

		if err != nil {
			lastErr = err
		} else {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusNotFound {
				return nil, perr.NotFoundf("markets endpoint missing: %s", strings.TrimSpace(string(snippet)))
			}
			lastErr = fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		}

		if attempt == c.opts.MaxRetries {
			break
		}
		c.log.Warn().
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Err(lastErr).
			Msg("markets fetch retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c.sleep(delay)
		delay *= 2
		if delay > c.opts.MaxDelay {
			delay = c.opts.MaxDelay
		}
	}

	return nil, perr.Wrapf(lastErr, perr.ErrorCodeUnavailable,
		"markets fetch failed after %d attempts", c.opts.MaxRetries)
}

// parseCSV decodes the Date,Open,High,Low,Close,Volume payload
func (c *Client) parseCSV(symbol string, body []byte) ([]Bar, error) {
	text := strings.TrimSpace(string(body))
	switch {
	case text == "" || strings.HasPrefix(text, "No data"):
		return nil, perr.NotFoundf("stooq has no data for %s", symbol)
	case strings.HasPrefix(text, "Exceeded the daily hits limit"):
		return nil, perr.TooManyRequestsf("stooq daily hits limit for %s", symbol)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	recs, err := r.ReadAll()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "stooq csv for %s", symbol)
	}
	if len(recs) == 0 || len(recs[0]) < 5 || recs[0][0] != "Date" {
		return nil, perr.Newf(perr.ErrorCodeUnknown, "stooq csv for %s: unexpected header", symbol)
	}

	bars := make([]Bar, 0, len(recs)-1)
	for _, rec := range recs[1:] {
		bar, ok := c.parseRow(symbol, rec)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (c *Client) parseRow(symbol string, rec []string) (Bar, bool) {
	if len(rec) < 5 {
		c.log.Warn().Str("symbol", symbol).Strs("row", rec).Msg("stooq row too short, skipping")
		return Bar{}, false
	}
	day, err := time.Parse("2006-01-02", rec[0])
	if err != nil {
		c.log.Warn().Str("symbol", symbol).Str("date", rec[0]).Msg("stooq row bad date, skipping")
		return Bar{}, false
	}

	vals := make([]float64, 4)
	for i, s := range rec[1:5] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.log.Warn().Str("symbol", symbol).Str("field", s).Msg("stooq row bad price, skipping")
			return Bar{}, false
		}
		vals[i] = v
	}

	// indices publish no volume
	var vol int64
	if len(rec) > 5 && rec[5] != "" {
		if v, err := strconv.ParseFloat(rec[5], 64); err == nil {
			vol = int64(v)
		}
	}

	return Bar{Day: day, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vol}, true
}

// StooqSymbol normalizes a ticker to Stooq form: lowercase, with the
// .us suffix assumed for plain US tickers. Symbols already carrying a
// suffix or an index prefix pass through
func StooqSymbol(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if s == "" {
		return s
	}
	if strings.ContainsAny(s, ".^") {
		return s
	}
	return s + ".us"
}
