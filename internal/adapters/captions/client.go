// Package captions pulls transcript tracks from YouTube watch pages
// It speaks the undocumented player payload, not the Data API, because the
// official surface does not expose caption text without OAuth
package captions

import (
	"context"
	json "encoding/json/v2"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
)

const (
	baseURLDefault   = "https://www.youtube.com"
	defaultTimeout   = 20 * time.Second
	defaultUA        = "Mozilla/5.0 (compatible; razorback-fetch)"
	defaultMaxRetry  = 3
	defaultRetryBase = 2 * time.Second
)

// Failure modes callers branch on with errors.Is
var (
	ErrTooManyRequests  = perr.New(perr.ErrorCodeTooManyRequests, "youtube served a captcha")
	ErrVideoUnavailable = perr.New(perr.ErrorCodeNotFound, "video unavailable")
	ErrNoTranscript     = perr.New(perr.ErrorCodeNotFound, "no transcript data")
)

var (
	consentFormRe  = regexp.MustCompile(`action="https://consent\.youtube\.com/s`)
	consentValueRe = regexp.MustCompile(`name="v" value="(.*?)"`)
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Languages in preference order; empty means take the first track
	Langs []string

	MaxRetries int
	RetryBase  time.Duration
}

// Client fetches watch pages and caption track XML
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
	if len(o.Langs) == 0 {
		o.Langs = []string{"en"}
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("captions"),
		sleep: time.Sleep,
	}
}

// Fetch returns the transcript for videoID in the best matching language
func (c *Client) Fetch(ctx context.Context, videoID string) (Transcript, error) {
	tracks, err := c.ListTracks(ctx, videoID)
	if err != nil {
		return Transcript{}, err
	}

	track, ok := chooseTrack(tracks, c.opts.Langs)
	if !ok {
		return Transcript{}, perr.Wrapf(ErrNoTranscript, perr.ErrorCodeNotFound,
			"video %s has no track for %v", videoID, c.opts.Langs)
	}

	body, err := c.get(ctx, track.BaseURL, nil)
	if err != nil {
		return Transcript{}, err
	}

	segs, err := parseTrackXML(body)
	if err != nil {
		return Transcript{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "video %s track xml", videoID)
	}

	return Transcript{
		VideoID:      videoID,
		Language:     track.Language,
		LanguageCode: track.LanguageCode,
		Generated:    track.Generated,
		Segments:     segs,
		Text:         joinSegments(segs),
	}, nil
}

// ListTracks fetches the watch page and extracts the caption track list
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	body, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	page := string(body)
	parts := strings.Split(page, `"captions":`)
	if len(parts) <= 1 {
		if strings.Contains(page, `class="g-recaptcha"`) {
			return nil, perr.Wrapf(ErrTooManyRequests, perr.ErrorCodeTooManyRequests, "video %s", videoID)
		}
		if !strings.Contains(page, `"playabilityStatus":`) {
			return nil, perr.Wrapf(ErrVideoUnavailable, perr.ErrorCodeNotFound, "video %s", videoID)
		}
		return nil, perr.Wrapf(ErrNoTranscript, perr.ErrorCodeNotFound, "video %s", videoID)
	}

	blob := strings.ReplaceAll(strings.Split(parts[1], `,"videoDetails`)[0], "\n", "")

	var payload struct {
		Renderer *struct {
			CaptionTracks []struct {
				BaseURL string `json:"baseUrl"`
				Name    struct {
					SimpleText string `json:"simpleText"`
				} `json:"name"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "video %s captions payload", videoID)
	}
	if payload.Renderer == nil || len(payload.Renderer.CaptionTracks) == 0 {
		return nil, perr.Wrapf(ErrNoTranscript, perr.ErrorCodeNotFound, "video %s", videoID)
	}

	tracks := make([]Track, 0, len(payload.Renderer.CaptionTracks))
	for _, t := range payload.Renderer.CaptionTracks {
		tracks = append(tracks, Track{
			BaseURL:      t.BaseURL,
			Language:     t.Name.SimpleText,
			LanguageCode: t.LanguageCode,
			Generated:    t.Kind == "asr",
		})
	}
	return tracks, nil
}

// fetchWatchPage loads the watch page, clearing the EU consent wall if needed
func (c *Client) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	u := c.opts.BaseURL + "/watch?v=" + videoID

	body, err := c.get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	if !consentFormRe.Match(body) {
		return body, nil
	}

	m := consentValueRe.FindSubmatch(body)
	if len(m) < 2 {
		return nil, perr.Newf(perr.ErrorCodeUnknown, "video %s consent wall without value", videoID)
	}
	cookie := &http.Cookie{
		Name:   "CONSENT",
		Value:  "YES+" + string(m[1]),
		Domain: ".youtube.com",
	}
	c.log.Debug().Str("video_id", videoID).Msg("captions consent wall, retrying with cookie")

	body, err = c.get(ctx, u, cookie)
	if err != nil {
		return nil, err
	}
	if consentFormRe.Match(body) {
		return nil, perr.Newf(perr.ErrorCodeUnknown, "video %s consent wall persisted", videoID)
	}
	return body, nil
}

// get runs a GET with bounded retries on transport and 5xx failures
func (c *Client) get(ctx context.Context, url string, cookie *http.Cookie) ([]byte, error) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "captions new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept-Language", "en-US")
		if cookie != nil {
			req.AddCookie(cookie)
		}

		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			b, rerr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			if rerr == nil && len(b) > 0 {
				return b, nil
			}
			err = rerr
		} else if resp != nil {
			if resp.StatusCode == http.StatusTooManyRequests {
				_ = resp.Body.Close()
				return nil, perr.Wrapf(ErrTooManyRequests, perr.ErrorCodeTooManyRequests, "watch page %d", resp.StatusCode)
			}
			_ = resp.Body.Close()
		}

		attempts++
		if attempts >= c.opts.MaxRetries {
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "captions get failed")
			}
			return nil, perr.Newf(perr.ErrorCodeUnavailable, "captions get failed after %d attempts", attempts)
		}
		back := c.opts.RetryBase * time.Duration(attempts)
		c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("captions fetch retrying")
		c.sleep(back)
	}
}

// chooseTrack picks the first track matching langs in order, else none
func chooseTrack(tracks []Track, langs []string) (Track, bool) {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	if len(langs) == 0 && len(tracks) > 0 {
		return tracks[0], true
	}
	return Track{}, false
}
