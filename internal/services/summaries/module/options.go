package module

import (
	"time"

	"github.com/sliu810/razorback-investing/internal/platform/config"
)

// Options configures the summaries module
type Options struct {
	Role       string
	Task       string
	ChunkWords int
	HardLimit  int

	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration
	LLMMaxRetries  int

	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CORE_SUMMARIES_")
	lf := cfg.Prefix("CORE_LLM_")
	mf := cfg.Prefix("CORE_MAIL_")
	return Options{
		Role:       sf.MayString("ROLE", ""),
		Task:       sf.MayString("TASK", ""),
		ChunkWords: sf.MayInt("CHUNK_WORDS", 4000),
		HardLimit:  sf.MayInt("HARD_LIMIT", 500),

		LLMBaseURL:     lf.MayString("BASE_URL", ""),
		LLMAPIKey:      lf.MayString("API_KEY", ""),
		LLMModel:       lf.MayString("MODEL", ""),
		LLMMaxTokens:   lf.MayInt("MAX_TOKENS", 0),
		LLMTemperature: lf.MayFloat64("TEMPERATURE", 0),
		LLMTimeout:     lf.MayDuration("TIMEOUT", 0),
		LLMMaxRetries:  lf.MayInt("MAX_RETRIES", 0),

		MailHost:     mf.MayString("HOST", ""),
		MailPort:     mf.MayInt("PORT", 0),
		MailUsername: mf.MayString("USERNAME", ""),
		MailPassword: mf.MayString("PASSWORD", ""),
		MailFrom:     mf.MayString("FROM", ""),
	}
}
