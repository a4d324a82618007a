package service

import (
	"context"
	"time"

	"github.com/sliu810/razorback-investing/internal/core/period"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/services/curator/domain"
	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// Run implements domain.WorkerPort
// it leases due jobs on a cadence until ctx is done; lease visibility means
// several curator processes can share one queue safely
func (s *Service) Run(ctx context.Context) error {
	t := time.NewTicker(s.Cfg.TickEvery)
	defer t.Stop()

	s.log.Info().
		Dur("tick", s.Cfg.TickEvery).
		Int("batch", s.Cfg.QueueTakeBatch).
		Msg("curator: worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			jobs, err := s.Repo.Lease(ctx, s.Cfg.QueueTakeBatch, s.Cfg.LeaseFor)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeDB, "lease curator jobs")
			}
			for _, j := range jobs {
				s.settle(ctx, j)
			}
		}
	}
}

// RunOnce implements domain.WorkerPort
// it drains everything currently due, then returns the tally
func (s *Service) RunOnce(ctx context.Context) (domain.RunReport, error) {
	var rep domain.RunReport
	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		jobs, err := s.Repo.Lease(ctx, s.Cfg.QueueTakeBatch, s.Cfg.LeaseFor)
		if err != nil {
			return rep, perr.Wrapf(err, perr.ErrorCodeDB, "lease curator jobs")
		}
		if len(jobs) == 0 {
			return rep, nil
		}
		for _, j := range jobs {
			if s.settle(ctx, j) {
				rep.Processed++
			} else {
				rep.Failed++
			}
		}
	}
}

// settle runs one leased job and acks, nacks, or parks it
func (s *Service) settle(ctx context.Context, j domain.Job) bool {
	if err := s.runJob(ctx, j); err != nil {
		s.handleJobError(ctx, j, err)
		return false
	}
	if err := s.Repo.Ack(ctx, j.ID); err != nil {
		s.log.Error().Err(err).Str("job_id", j.ID).Msg("curator: ack failed")
		return false
	}
	return true
}

// runJob executes the pipeline stages a job asked for, in order:
// fetch, summaries, digest, email. The first failing stage aborts the job
// so a retry resumes from a consistent store state
func (s *Service) runJob(ctx context.Context, j domain.Job) error {
	started := s.now()

	rep, err := s.fetcher.RefreshChannel(ctx, vdom.RefreshInput{
		ChannelRef:      j.ChannelRef,
		PeriodType:      j.PeriodType,
		Number:          j.Number,
		Tz:              j.Tz,
		WithTranscripts: j.WithTranscripts,
	})
	if err != nil {
		return perr.Wrapf(err, perr.CodeOf(err), "job %s fetch stage", j.ID)
	}
	s.log.Info().
		Str("job_id", j.ID).
		Str("channel", j.ChannelRef).
		Int("found", rep.Found).
		Int("new", rep.New).
		Int("transcribed", rep.Transcribed).
		Int("failed", rep.Failed).
		Msg("curator: fetch stage done")

	if !j.WithSummaries && len(j.EmailTo) == 0 {
		s.log.Info().Str("job_id", j.ID).Dur("took", s.now().Sub(started)).Msg("curator: job done")
		return nil
	}

	// summaries and digests share the job's resolved window
	rng, err := period.Resolve(j.PeriodType, j.Number, j.Tz, s.now().UTC())
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "job %s window", j.ID)
	}

	if j.WithSummaries {
		srep, err := s.summarizer.SummarizeWindow(ctx, sdom.WindowInput{
			ChannelRef: j.ChannelRef,
			Since:      rng.Start,
			Until:      rng.End,
		})
		if err != nil {
			return perr.Wrapf(err, perr.CodeOf(err), "job %s summarize stage", j.ID)
		}
		s.log.Info().
			Str("job_id", j.ID).
			Int("summarized", srep.Summarized).
			Int("skipped", srep.Skipped).
			Int("failed", srep.Failed).
			Msg("curator: summarize stage done")
	}

	if len(j.EmailTo) > 0 {
		d, err := s.digests.BuildDigest(ctx, j.ChannelRef, rng.Start, rng.End)
		if err != nil {
			return perr.Wrapf(err, perr.CodeOf(err), "job %s digest stage", j.ID)
		}
		if d.Empty() {
			s.log.Info().Str("job_id", j.ID).Msg("curator: empty digest, skipping email")
		} else if err := s.digests.EmailDigest(ctx, d.ID, j.EmailTo); err != nil {
			return perr.Wrapf(err, perr.CodeOf(err), "job %s email stage", j.ID)
		}
	}

	s.log.Info().Str("job_id", j.ID).Dur("took", s.now().Sub(started)).Msg("curator: job done")
	return nil
}

// handleJobError decides between a delayed retry and terminal parking
// invalid jobs can never succeed so they park immediately
func (s *Service) handleJobError(ctx context.Context, j domain.Job, err error) {
	msg := trimErr(err)

	if perr.IsCode(err, perr.ErrorCodeInvalidArgument) || perr.IsCode(err, perr.ErrorCodeNotFound) {
		if ferr := s.Repo.Fail(ctx, j.ID, msg); ferr != nil {
			s.log.Error().Err(ferr).Str("job_id", j.ID).Msg("curator: park failed")
		}
		s.log.Warn().Str("job_id", j.ID).Str("cause", msg).Msg("curator: job parked, not retryable")
		return
	}

	if j.Attempts+1 >= s.Cfg.MaxAttempts {
		if ferr := s.Repo.Fail(ctx, j.ID, msg); ferr != nil {
			s.log.Error().Err(ferr).Str("job_id", j.ID).Msg("curator: park failed")
		}
		s.log.Warn().
			Str("job_id", j.ID).
			Int("attempts", j.Attempts+1).
			Str("cause", msg).
			Msg("curator: job parked, attempts exhausted")
		return
	}

	back := backoffFor(j.Attempts, s.Cfg.RetryBase)
	if perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		back += s.Cfg.QuotaWait
	}
	if nerr := s.Repo.Nack(ctx, j.ID, back, msg); nerr != nil {
		s.log.Error().Err(nerr).Str("job_id", j.ID).Msg("curator: nack failed")
		return
	}
	s.log.Warn().
		Str("job_id", j.ID).
		Dur("backoff", back).
		Str("cause", msg).
		Msg("curator: job failed, scheduled retry")
}

// backoffFor doubles the base per attempt and caps at ten minutes
func backoffFor(attempts int, base time.Duration) time.Duration {
	if base <= 0 {
		base = 30 * time.Second
	}
	if attempts < 0 {
		attempts = 0
	}
	const ceiling = 10 * time.Minute
	d := base << uint(attempts)
	if d <= 0 || d > ceiling {
		return ceiling
	}
	return d
}

// trimErr bounds stored error text to the column width
func trimErr(err error) string {
	const n = 500
	s := err.Error()
	if len(s) <= n {
		return s
	}
	return s[:n]
}
