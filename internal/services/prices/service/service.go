// Package service provides the prices service implementation
package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sliu810/razorback-investing/internal/adapters/markets"
	"github.com/sliu810/razorback-investing/internal/core/demark"
	"github.com/sliu810/razorback-investing/internal/core/period"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	"github.com/sliu810/razorback-investing/internal/services/prices/domain"
	"github.com/sliu810/razorback-investing/internal/services/prices/repo"
)

// BarSource is the upstream market data surface the service needs
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]markets.Bar, error)
}

// Config for the prices service
type Config struct {
	// Timezone anchors period windows; defaults to period.DefaultTimezone
	Timezone string
}

// Service implements domain.QuotePort and domain.IngestPort
type Service struct {
	Repo   repo.Storage
	Source BarSource
	Cfg    Config

	log logger.Logger
	now func() time.Time
}

// New constructs a new prices service
func New(st repo.Storage, src BarSource, cfg Config) *Service {
	if cfg.Timezone == "" {
		cfg.Timezone = period.DefaultTimezone
	}
	return &Service{
		Repo: st, Source: src, Cfg: cfg,
		log: *logger.Named("prices"),
		now: time.Now,
	}
}

// periodDays maps trader period keys to days subtracted from today
var periodDays = map[string]int{
	"1d": 1, "5d": 5, "1m": 30, "3m": 91, "6m": 182,
	"1y": 365, "2y": 730, "3y": 1095, "5y": 1825, "10y": 3650, "20y": 7300,
}

// Window implements domain.QuotePort
// an empty key means ytd, the in-progress calendar year; the rest are day
// offsets, so a key of N days yields N+1 calendar days ending today
func (s *Service) Window(periodKey string) (period.Range, error) {
	key := strings.ToLower(strings.TrimSpace(periodKey))
	if key == "" || key == "ytd" {
		rng, err := period.ResolveYear(nil, s.Cfg.Timezone, s.now().UTC())
		if err != nil {
			return period.Range{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve ytd window")
		}
		return rng, nil
	}
	days, ok := periodDays[key]
	if !ok {
		return period.Range{}, perr.InvalidArgf("unknown price period %q", periodKey)
	}
	rng, err := period.Resolve(period.TypeDays, days+1, s.Cfg.Timezone, s.now().UTC())
	if err != nil {
		return period.Range{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve %q window", key)
	}
	return rng, nil
}

// Performance implements domain.QuotePort
func (s *Service) Performance(ctx context.Context, symbol, periodKey string) (domain.Performance, error) {
	sym, err := cleanSymbol(symbol)
	if err != nil {
		return domain.Performance{}, err
	}
	key := strings.ToLower(strings.TrimSpace(periodKey))
	if key == "" {
		key = "ytd"
	}
	rng, err := s.Window(key)
	if err != nil {
		return domain.Performance{}, err
	}
	bars, err := s.Repo.Series(ctx, sym, rng.Start, rng.End)
	if err != nil {
		return domain.Performance{}, perr.Wrapf(err, perr.ErrorCodeDB, "series for %s", sym)
	}
	return performanceOf(sym, key, bars)
}

// performanceOf computes the 1-dp move between the window's edge closes
// edge closes round before the percentage does
func performanceOf(symbol, key string, bars []domain.Bar) (domain.Performance, error) {
	if len(bars) < 2 {
		return domain.Performance{}, perr.Conflictf(
			"%s has %d bars in %s, need at least 2", symbol, len(bars), key)
	}
	first, last := bars[0], bars[len(bars)-1]
	start := round1(first.Close)
	end := round1(last.Close)
	if start == 0 {
		return domain.Performance{}, perr.Conflictf("%s start close rounds to zero in %s", symbol, key)
	}
	return domain.Performance{
		Symbol:     symbol,
		Period:     key,
		Start:      first.Day,
		End:        last.Day,
		StartClose: start,
		EndClose:   end,
		ChangePct:  round1((end - start) / start * 100),
	}, nil
}

// Series implements domain.QuotePort
func (s *Service) Series(ctx context.Context, symbol string, rng period.Range) ([]domain.Bar, error) {
	sym, err := cleanSymbol(symbol)
	if err != nil {
		return nil, err
	}
	bars, err := s.Repo.Series(ctx, sym, rng.Start, rng.End)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "series for %s", sym)
	}
	return bars, nil
}

// Demark implements domain.QuotePort
func (s *Service) Demark(ctx context.Context, symbol string, rng period.Range) ([]domain.Signal, error) {
	bars, err := s.Series(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}

	seq := make([]demark.Bar, len(bars))
	for i, b := range bars {
		seq[i] = demark.Bar{High: b.High, Low: b.Low, Close: b.Close}
	}
	points := demark.Compute(seq)

	out := make([]domain.Signal, len(bars))
	for i, b := range bars {
		out[i] = domain.Signal{Day: b.Day, Close: b.Close, Setup: points[i].Setup, Countdown: points[i].Countdown}
	}
	return out, nil
}

// IngestDaily implements domain.IngestPort
// the stored window slice is cleared first so repeated runs stay idempotent
func (s *Service) IngestDaily(ctx context.Context, symbol string, rng period.Range) (domain.IngestReport, error) {
	sym, err := cleanSymbol(symbol)
	if err != nil {
		return domain.IngestReport{}, err
	}

	raw, err := s.Source.DailyBars(ctx, sym, rng.Start, rng.End)
	if err != nil {
		return domain.IngestReport{}, err
	}

	// bound by calendar day; upstream occasionally pads the range
	startDay, endDay := rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02")
	bars := make([]domain.Bar, 0, len(raw))
	for _, b := range raw {
		if d := b.Day.Format("2006-01-02"); d < startDay || d > endDay {
			continue
		}
		bars = append(bars, domain.Bar{
			Symbol: sym, Day: b.Day,
			Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume,
		})
	}

	if err := s.Repo.DeleteBars(ctx, sym, rng.Start, rng.End); err != nil {
		return domain.IngestReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "clear %s window", sym)
	}
	if err := s.Repo.InsertBars(ctx, bars); err != nil {
		return domain.IngestReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "store %s bars", sym)
	}
	s.log.Info().
		Str("symbol", sym).
		Int("fetched", len(raw)).
		Int("stored", len(bars)).
		Str("window", rng.String()).
		Msg("prices: ingested daily bars")
	return domain.IngestReport{Symbol: sym, Fetched: len(raw), Stored: len(bars)}, nil
}

// round1 rounds half away from zero to one decimal
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// cleanSymbol upper-cases the stored form of a ticker
func cleanSymbol(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", perr.InvalidArgf("symbol required")
	}
	return sym, nil
}
