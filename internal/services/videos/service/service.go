// Package service provides the videos service implementation
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sliu810/razorback-investing/internal/adapters/captions"
	"github.com/sliu810/razorback-investing/internal/adapters/youtube"
	"github.com/sliu810/razorback-investing/internal/core/period"
	"github.com/sliu810/razorback-investing/internal/core/transcripttext"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	chandom "github.com/sliu810/razorback-investing/internal/services/channels/domain"
	"github.com/sliu810/razorback-investing/internal/services/videos/domain"
	"github.com/sliu810/razorback-investing/internal/services/videos/repo"
)

// Source is the upstream listing surface the service needs
type Source interface {
	SearchVideos(ctx context.Context, channelID string, after, before time.Time) ([]youtube.SearchItem, error)
	ListVideos(ctx context.Context, ids []string) ([]youtube.VideoItem, error)
}

// Transcriber fetches one caption track per video
type Transcriber interface {
	Fetch(ctx context.Context, videoID string) (captions.Transcript, error)
}

// Config for the videos service
type Config struct {
	// HardLimit is the maximum allowed limit per List call; defaults to 500 if <=0
	HardLimit int
	// FetchWorkers bounds parallel transcript fetches; defaults to 4 if <=0
	FetchWorkers int
}

// Service implements domain.FetcherPort and domain.ReaderPort
type Service struct {
	DB          repokit.TxRunner
	Binder      repokit.Binder[repo.Storage]
	Registry    chandom.RegistryPort
	Source      Source
	Transcriber Transcriber
	Cfg         Config

	log   logger.Logger
	clean *transcripttext.Cleaner
	now   func() time.Time
}

// New constructs a new videos service
func New(
	db repokit.TxRunner,
	b repokit.Binder[repo.Storage],
	reg chandom.RegistryPort,
	src Source,
	tr Transcriber,
	cfg Config,
) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 500
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = 4
	}
	return &Service{
		DB: db, Binder: b, Registry: reg, Source: src, Transcriber: tr, Cfg: cfg,
		log:   *logger.Named("videos"),
		clean: transcripttext.New(),
		now:   time.Now,
	}
}

// RefreshChannel implements domain.FetcherPort
func (s *Service) RefreshChannel(ctx context.Context, in domain.RefreshInput) (domain.RefreshReport, error) {
	ch, err := s.Registry.Resolve(ctx, in.ChannelRef)
	if err != nil {
		return domain.RefreshReport{}, err
	}

	tz := in.Tz
	if tz == "" {
		tz = ch.Timezone
	}
	rng, err := period.Resolve(in.PeriodType, in.Number, tz, s.now().UTC())
	if err != nil {
		return domain.RefreshReport{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "refresh %q", in.ChannelRef)
	}

	items, err := s.discover(ctx, ch, rng)
	if err != nil {
		return domain.RefreshReport{}, err
	}

	fetchedAt := s.now().UTC()
	vids := make([]domain.Video, 0, len(items))
	for _, it := range items {
		vids = append(vids, s.mapItem(it, fetchedAt))
	}

	var inserted int64
	if len(vids) > 0 {
		err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
			var err error
			inserted, err = s.Binder.Bind(q).UpsertVideos(ctx, vids)
			return err
		})
		if err != nil {
			return domain.RefreshReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "store videos for %q", ch.Name)
		}
	}

	report := domain.RefreshReport{Found: len(vids), New: int(inserted)}
	s.log.Info().
		Str("channel", ch.Name).
		Str("window", rng.String()).
		Int("found", report.Found).
		Int("new", report.New).
		Msg("videos: refresh window")

	if !in.WithTranscripts || len(vids) == 0 {
		return report, nil
	}

	ids := make([]string, len(vids))
	for i := range vids {
		ids[i] = vids[i].ID
	}
	report.Transcribed, report.Failed = s.fetchTranscripts(ctx, ids)
	return report, nil
}

// discover lists the window's videos from upstream for either channel kind
func (s *Service) discover(ctx context.Context, ch chandom.Channel, rng period.Range) ([]youtube.VideoItem, error) {
	switch ch.Kind {
	case chandom.KindVirtual:
		// curated sets are small and fixed; the window does not apply
		return s.Source.ListVideos(ctx, dedupe(ch.VideoIDs))
	case chandom.KindYouTube:
		hits, err := s.Source.SearchVideos(ctx, ch.ID, rng.Start, rng.End)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			return nil, nil
		}
		ids := make([]string, 0, len(hits))
		for _, h := range hits {
			ids = append(ids, h.VideoID)
		}
		return s.Source.ListVideos(ctx, dedupe(ids))
	default:
		return nil, perr.InvalidArgf("channel %q has unknown kind %q", ch.Name, ch.Kind)
	}
}

// mapItem converts one upstream row into a stored video
// malformed durations are logged and zeroed, never fatal to the batch
func (s *Service) mapItem(it youtube.VideoItem, fetchedAt time.Time) domain.Video {
	mins, err := period.DurationToMinutes(it.Duration)
	if err != nil {
		s.log.Warn().
			Str("video_id", it.ID).
			Str("duration", it.Duration).
			Msg("videos: unparseable duration, storing zero")
		mins = 0
	}
	return domain.Video{
		ID:              it.ID,
		ChannelID:       it.ChannelID,
		ChannelTitle:    it.ChannelTitle,
		Title:           it.Title,
		PublishedAt:     it.PublishedAt.UTC(),
		DurationMinutes: mins,
		URL:             domain.WatchURL(it.ID),
		FetchedAt:       fetchedAt,
	}
}

// fetchTranscripts fans caption fetches over a bounded worker pool
// per-video failures are logged and counted, never fatal to the refresh
func (s *Service) fetchTranscripts(ctx context.Context, ids []string) (done, failed int) {
	var missing []string
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		missing, err = s.Binder.Bind(q).MissingTranscripts(ctx, ids)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Msg("videos: missing transcript lookup failed")
		return 0, len(ids)
	}
	if len(missing) == 0 {
		return 0, 0
	}

	var ok, bad int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.Cfg.FetchWorkers)

	for _, id := range missing {
		select {
		case <-ctx.Done():
			wg.Wait()
			return int(ok), int(bad)
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(videoID string) {
			defer func() { <-sem; wg.Done() }()
			if err := s.transcribeOne(ctx, videoID); err != nil {
				logger.C(ctx).Warn().Str("video_id", videoID).Err(err).Msg("videos: transcript fetch failed")
				atomic.AddInt64(&bad, 1)
				return
			}
			atomic.AddInt64(&ok, 1)
		}(id)
	}
	wg.Wait()
	return int(ok), int(bad)
}

// transcribeOne fetches, cleans, and stores a single transcript
func (s *Service) transcribeOne(ctx context.Context, videoID string) error {
	tr, err := s.Transcriber.Fetch(ctx, videoID)
	if err != nil {
		return err
	}

	src := "manual"
	if tr.Generated {
		src = "auto"
	}
	lines := make([]domain.Line, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		lines = append(lines, domain.Line{Start: seg.Start, Dur: seg.Dur, Text: seg.Text})
	}
	rec := domain.Transcript{
		VideoID:   videoID,
		LangCode:  tr.LanguageCode,
		Source:    src,
		Text:      s.clean.Clean(tr.Text),
		Lines:     lines,
		FetchedAt: s.now().UTC(),
	}

	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).UpsertTranscript(ctx, rec)
	})
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, in domain.ListInput) ([]domain.Video, domain.AfterKey, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}

	var f repo.ListFilter
	if in.ChannelRef != "" {
		ch, err := s.Registry.Resolve(ctx, in.ChannelRef)
		if err != nil {
			return nil, domain.AfterKey{}, err
		}
		if ch.Kind == chandom.KindVirtual {
			f.VideoIDs = dedupe(ch.VideoIDs)
		} else {
			f.ChannelID = ch.ID
		}
	}
	if in.Until.IsZero() {
		in.Until = s.now().UTC()
	}

	var rows []domain.Video
	var next domain.AfterKey
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		rows, next, err = s.Binder.Bind(q).List(ctx, f, in, limit)
		return err
	})
	if err != nil {
		return nil, domain.AfterKey{}, perr.Wrapf(err, perr.ErrorCodeDB, "list videos")
	}
	return rows, next, nil
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, videoID string) (domain.Video, error) {
	var v domain.Video
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		v, ok, err = s.Binder.Bind(q).Get(ctx, videoID)
		return err
	})
	if err != nil {
		return domain.Video{}, perr.Wrapf(err, perr.ErrorCodeDB, "get video %q", videoID)
	}
	if !ok {
		return domain.Video{}, perr.NotFoundf("video %q not found", videoID)
	}
	return v, nil
}

// GetTranscript implements domain.ReaderPort
func (s *Service) GetTranscript(ctx context.Context, videoID string) (domain.Transcript, error) {
	var t domain.Transcript
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		t, ok, err = s.Binder.Bind(q).GetTranscript(ctx, videoID)
		return err
	})
	if err != nil {
		return domain.Transcript{}, perr.Wrapf(err, perr.ErrorCodeDB, "get transcript %q", videoID)
	}
	if !ok {
		return domain.Transcript{}, perr.NotFoundf("video %q has no transcript", videoID)
	}
	return t, nil
}

// dedupe drops repeated ids preserving first-seen order
func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
