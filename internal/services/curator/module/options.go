package module

import (
	"time"

	"github.com/sliu810/razorback-investing/internal/platform/config"
)

// Options configures the curator module
type Options struct {
	TickEvery      time.Duration
	LeaseFor       time.Duration
	QueueTakeBatch int
	RetryBase      time.Duration
	MaxAttempts    int
	QuotaWait      time.Duration
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	cu := cfg.Prefix("CORE_CURATOR_")
	return Options{
		TickEvery:      cu.MayDuration("TICK_EVERY", 2*time.Second),
		LeaseFor:       cu.MayDuration("LEASE_FOR", 10*time.Minute),
		QueueTakeBatch: cu.MayInt("TAKE_BATCH", 8),
		RetryBase:      cu.MayDuration("RETRY_BASE", 30*time.Second),
		MaxAttempts:    cu.MayInt("MAX_ATTEMPTS", 5),
		QuotaWait:      cu.MayDuration("QUOTA_WAIT", 10*time.Minute),
	}
}
