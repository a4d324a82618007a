package module

import (
	"time"

	"github.com/sliu810/razorback-investing/internal/platform/config"
)

// Options configures the videos module
type Options struct {
	HardLimit    int
	FetchWorkers int

	YouTubeKeysCSV    string
	YouTubeRPS        float64
	YouTubeBurst      int
	YouTubeTimeout    time.Duration
	YouTubeMaxRetries int

	CaptionLangs      []string
	CaptionTimeout    time.Duration
	CaptionMaxRetries int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	vf := cfg.Prefix("CORE_VIDEOS_")
	yt := cfg.Prefix("CORE_YOUTUBE_")
	cc := cfg.Prefix("CORE_CAPTIONS_")
	return Options{
		HardLimit:    vf.MayInt("HARD_LIMIT", 500),
		FetchWorkers: vf.MayInt("FETCH_WORKERS", 4),

		YouTubeKeysCSV:    yt.MayString("API_KEYS", ""),
		YouTubeRPS:        yt.MayFloat64("RPS", 4),
		YouTubeBurst:      yt.MayInt("BURST", 4),
		YouTubeTimeout:    yt.MayDuration("TIMEOUT", 30*time.Second),
		YouTubeMaxRetries: yt.MayInt("MAX_RETRIES", 0),

		CaptionLangs:      cc.MayCSV("LANGS", []string{"en"}),
		CaptionTimeout:    cc.MayDuration("TIMEOUT", 30*time.Second),
		CaptionMaxRetries: cc.MayInt("MAX_RETRIES", 0),
	}
}
