// Package service implements the curator queue worker
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sliu810/razorback-investing/internal/core/period"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	"github.com/sliu810/razorback-investing/internal/services/curator/domain"
	"github.com/sliu810/razorback-investing/internal/services/curator/repo"
	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// Config carries worker knobs
type Config struct {
	TickEvery      time.Duration // lease poll cadence
	LeaseFor       time.Duration // how long a leased job stays invisible
	QueueTakeBatch int
	RetryBase      time.Duration
	MaxAttempts    int
	QuotaWait      time.Duration // extra delay after quota errors
}

// Service implements domain.WorkerPort and domain.EnqueuePort
type Service struct {
	Repo repo.Storage
	Cfg  Config

	fetcher    vdom.FetcherPort
	summarizer sdom.SummarizerPort
	digests    sdom.DigestPort

	log logger.Logger
	now func() time.Time
}

// New constructs a curator service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], ports domain.Ports, cfg Config) *Service {
	if db == nil {
		panic("curator.Service requires a non nil TxRunner")
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = 2 * time.Second
	}
	if cfg.LeaseFor <= 0 {
		cfg.LeaseFor = 10 * time.Minute
	}
	if cfg.QueueTakeBatch <= 0 {
		cfg.QueueTakeBatch = 8
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.QuotaWait <= 0 {
		cfg.QuotaWait = 10 * time.Minute
	}
	return &Service{
		Repo:       b.Bind(db),
		Cfg:        cfg,
		fetcher:    ports.Fetcher,
		summarizer: ports.Summarizer,
		digests:    ports.Digests,
		log:        *logger.Named("curator"),
		now:        time.Now,
	}
}

// Enqueue validates and stores a refresh job
func (s *Service) Enqueue(ctx context.Context, in domain.EnqueueInput) (domain.Job, error) {
	ref := strings.TrimSpace(in.ChannelRef)
	if ref == "" {
		return domain.Job{}, perr.InvalidArgf("channel_ref required")
	}
	pt := strings.TrimSpace(in.PeriodType)
	if pt == "" {
		pt = period.TypeDays
	}
	// resolve once up front so a job that can never run is rejected here
	if _, err := period.Resolve(pt, in.Number, in.Tz, s.now().UTC()); err != nil {
		return domain.Job{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "enqueue window")
	}

	j := domain.Job{
		ID:              uuid.NewString(),
		ChannelRef:      ref,
		PeriodType:      pt,
		Number:          in.Number,
		Tz:              strings.TrimSpace(in.Tz),
		WithTranscripts: in.WithTranscripts,
		WithSummaries:   in.WithSummaries,
		EmailTo:         in.EmailTo,
		State:           domain.StateQueued,
	}
	if err := s.Repo.Enqueue(ctx, j); err != nil {
		return domain.Job{}, perr.Wrapf(err, perr.ErrorCodeDB, "enqueue curator job")
	}
	s.log.Info().Str("job_id", j.ID).Str("channel", ref).Msg("curator: job queued")
	return j, nil
}
