package module

import (
	"time"

	"github.com/sliu810/razorback-investing/internal/platform/config"
)

// Options configures the prices module
type Options struct {
	Timezone string

	MarketsBaseURL    string
	MarketsUserAgent  string
	MarketsTimeout    time.Duration
	MarketsMaxRetries int
	MarketsRetryBase  time.Duration
	MarketsMaxDelay   time.Duration
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	pr := cfg.Prefix("CORE_PRICES_")
	mk := cfg.Prefix("CORE_MARKETS_")
	return Options{
		Timezone: pr.MayString("TZ", ""),

		MarketsBaseURL:    mk.MayString("BASE_URL", ""),
		MarketsUserAgent:  mk.MayString("USER_AGENT", ""),
		MarketsTimeout:    mk.MayDuration("TIMEOUT", 0),
		MarketsMaxRetries: mk.MayInt("MAX_RETRIES", 0),
		MarketsRetryBase:  mk.MayDuration("RETRY_BASE", 0),
		MarketsMaxDelay:   mk.MayDuration("MAX_DELAY", 0),
	}
}
