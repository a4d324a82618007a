// Package service provides the summaries service implementation
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sliu810/razorback-investing/internal/adapters/llm"
	"github.com/sliu810/razorback-investing/internal/adapters/mail"
	"github.com/sliu810/razorback-investing/internal/core/prompts"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	chandom "github.com/sliu810/razorback-investing/internal/services/channels/domain"
	"github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	"github.com/sliu810/razorback-investing/internal/services/summaries/repo"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// Completer is the language model surface the service needs
type Completer interface {
	Complete(ctx context.Context, msgs []prompts.Message) (string, error)
	Model() string
}

// Mailer sends rendered digests
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Config for the summaries service
type Config struct {
	// Role and Task are the default preset names for summarize calls
	Role string
	Task string
	// ChunkWords is the chunk size for the context-length fallback; defaults to 4000 if <=0
	ChunkWords int
	// HardLimit is the maximum allowed limit per List call; defaults to 500 if <=0
	HardLimit int
}

// Service implements domain.SummarizerPort, domain.DigestPort and domain.ReaderPort
type Service struct {
	DB       repokit.TxRunner
	Binder   repokit.Binder[repo.Storage]
	Registry chandom.RegistryPort
	Library  vdom.ReaderPort
	LLM      Completer
	Mail     Mailer
	Cfg      Config

	log logger.Logger
	now func() time.Time
}

// New constructs a new summaries service
func New(
	db repokit.TxRunner,
	b repokit.Binder[repo.Storage],
	reg chandom.RegistryPort,
	lib vdom.ReaderPort,
	completer Completer,
	mailer Mailer,
	cfg Config,
) *Service {
	if cfg.Role == "" {
		cfg.Role = prompts.RoleResearchAssistant
	}
	if cfg.Task == "" {
		cfg.Task = prompts.TaskSummarize
	}
	if cfg.ChunkWords <= 0 {
		cfg.ChunkWords = 4000
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 500
	}
	return &Service{
		DB: db, Binder: b, Registry: reg, Library: lib, LLM: completer, Mail: mailer, Cfg: cfg,
		log: *logger.Named("summaries"),
		now: time.Now,
	}
}

// SummarizeVideo implements domain.SummarizerPort
func (s *Service) SummarizeVideo(ctx context.Context, in domain.SummarizeInput) (domain.Summary, error) {
	role, task, err := s.presets(in.Role, in.Task)
	if err != nil {
		return domain.Summary{}, err
	}

	tr, err := s.Library.GetTranscript(ctx, in.VideoID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Summary{}, perr.Conflictf("video %q has no transcript to summarize", in.VideoID)
		}
		return domain.Summary{}, err
	}
	if strings.TrimSpace(tr.Text) == "" {
		return domain.Summary{}, perr.Conflictf("video %q transcript is empty", in.VideoID)
	}

	text, err := s.complete(ctx, role, task, tr.Text)
	if err != nil {
		return domain.Summary{}, err
	}

	sum := domain.Summary{
		ID:        uuid.NewString(),
		VideoID:   in.VideoID,
		Role:      role.Name,
		Task:      task.Name,
		Model:     s.LLM.Model(),
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).UpsertSummary(ctx, sum)
	})
	if err != nil {
		return domain.Summary{}, perr.Wrapf(err, perr.ErrorCodeDB, "store summary for %q", in.VideoID)
	}
	return sum, nil
}

// SummarizeWindow implements domain.SummarizerPort
func (s *Service) SummarizeWindow(ctx context.Context, in domain.WindowInput) (domain.WindowReport, error) {
	role, task, err := s.presets(in.Role, in.Task)
	if err != nil {
		return domain.WindowReport{}, err
	}

	vids, err := s.windowVideos(ctx, in.ChannelRef, in.Since, in.Until)
	if err != nil {
		return domain.WindowReport{}, err
	}
	if len(vids) == 0 {
		return domain.WindowReport{}, nil
	}

	ids := make([]string, len(vids))
	for i := range vids {
		ids[i] = vids[i].ID
	}
	var missing []string
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		missing, err = s.Binder.Bind(q).MissingSummaries(ctx, ids, role.Name, task.Name)
		return err
	})
	if err != nil {
		return domain.WindowReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "missing summary lookup")
	}

	report := domain.WindowReport{Skipped: len(ids) - len(missing)}
	for _, id := range missing {
		_, err := s.SummarizeVideo(ctx, domain.SummarizeInput{VideoID: id, Role: role.Name, Task: task.Name})
		switch {
		case err == nil:
			report.Summarized++
		case perr.IsCode(err, perr.ErrorCodeConflict):
			// nothing to summarize without a transcript
			report.Skipped++
		default:
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			s.log.Warn().Str("video_id", id).Err(err).Msg("summaries: summarize failed")
			report.Failed++
		}
	}
	s.log.Info().
		Str("channel", in.ChannelRef).
		Int("summarized", report.Summarized).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("summaries: window pass")
	return report, nil
}

// presets resolves role and task names, falling back to configured defaults
func (s *Service) presets(roleName, taskName string) (prompts.Role, prompts.Task, error) {
	if roleName == "" {
		roleName = s.Cfg.Role
	}
	if taskName == "" {
		taskName = s.Cfg.Task
	}
	role, err := prompts.ParseRole(roleName)
	if err != nil {
		return prompts.Role{}, prompts.Task{}, perr.InvalidArgf("role %q", roleName)
	}
	task, err := prompts.ParseTask(taskName)
	if err != nil {
		return prompts.Role{}, prompts.Task{}, perr.InvalidArgf("task %q", taskName)
	}
	return role, task, nil
}

// complete runs the model over the full text, falling back to word chunks
// when the model rejects the prompt for length
func (s *Service) complete(ctx context.Context, role prompts.Role, task prompts.Task, text string) (string, error) {
	out, err := s.LLM.Complete(ctx, prompts.Build(role, task, text))
	if err == nil {
		return llm.StripFences(out), nil
	}
	if !errors.Is(err, llm.ErrContextTooLong) {
		return "", err
	}

	chunks := llm.ChunkWords(text, s.Cfg.ChunkWords)
	s.log.Info().Int("chunks", len(chunks)).Msg("summaries: prompt too long, chunking")

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := s.LLM.Complete(ctx, prompts.Build(role, task, chunk))
		if err != nil {
			return "", err
		}
		parts = append(parts, llm.StripFences(part))
	}
	return strings.Join(parts, "\n"), nil
}

// windowVideos pages the stored window until exhausted
func (s *Service) windowVideos(ctx context.Context, ref string, since, until time.Time) ([]vdom.Video, error) {
	var out []vdom.Video
	var after vdom.AfterKey
	for {
		page, next, err := s.Library.List(ctx, vdom.ListInput{
			ChannelRef: ref, Since: since, Until: until, After: after,
		})
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return out, nil
		}
		out = append(out, page...)
		after = next
	}
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, in domain.ListInput) ([]domain.Item, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}

	f := repo.Filter{Role: in.Role, Task: in.Task}
	if in.ChannelRef != "" {
		ch, err := s.Registry.Resolve(ctx, in.ChannelRef)
		if err != nil {
			return nil, err
		}
		if ch.Kind == chandom.KindVirtual {
			f.VideoIDs = ch.VideoIDs
		} else {
			f.ChannelID = ch.ID
		}
	}
	until := in.Until
	if until.IsZero() {
		until = s.now().UTC()
	}

	var items []domain.Item
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		items, err = s.Binder.Bind(q).List(ctx, f, in.Since, until, limit)
		return err
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list summaries")
	}
	return items, nil
}

// LatestDigest implements domain.ReaderPort
func (s *Service) LatestDigest(ctx context.Context, channelRef string) (domain.Digest, error) {
	ch, err := s.Registry.Resolve(ctx, channelRef)
	if err != nil {
		return domain.Digest{}, err
	}
	var d domain.Digest
	var ok bool
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		d, ok, err = s.Binder.Bind(q).LatestDigest(ctx, ch.ID)
		return err
	})
	if err != nil {
		return domain.Digest{}, perr.Wrapf(err, perr.ErrorCodeDB, "latest digest for %q", channelRef)
	}
	if !ok {
		return domain.Digest{}, perr.NotFoundf("channel %q has no digests", channelRef)
	}
	return d, nil
}
