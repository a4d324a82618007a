// Package service provides the channel registry service implementation
package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sliu810/razorback-investing/internal/core/period"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
	"github.com/sliu810/razorback-investing/internal/services/channels/domain"
	"github.com/sliu810/razorback-investing/internal/services/channels/repo"
)

// builtins maps registry names to upstream YouTube channel IDs
// the set mirrors the finance channels the curator has always watched
var builtins = map[string]string{
	"CNBC_TV":             "UCrp_UI8XtuYfpiqluWLD7Lw",
	"BloombergTechnology": "UCrM7B7SL_g1edFOnmj-SDKg",
	"YahooFinance":        "UCEAZeUIeJs0IjQiqTCdVSIg",
	"DeepWater":           "UCQCNLsdpDV1XSHH4V8WQuPA",
	"BobUnlimited":        "UClkYGk572o1kZp9juGxSSHg",
	"LukeGromenFFTTLLC":   "UC3dgTGurzmoefBchduxs4Gg",
	"TheDavidLinReport":   "UCaD8nSFXtoX7pDeoK6v6pKw",
	"TheLeadLagReport":    "UCInl2wu4m5EjpgZP7kosVUg",
}

// Service implements domain.RegistryPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a new channels service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

// Resolve implements domain.RegistryPort
// stored rows win over the built-in registry so operators can override titles
// or timezones without code changes
func (s *Service) Resolve(ctx context.Context, ref string) (domain.Channel, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Channel{}, perr.InvalidArgf("channel ref is required")
	}

	var ch domain.Channel
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		var err error
		ch, ok, err = st.Get(ctx, ref)
		if err != nil || ok {
			return err
		}
		ch, ok, err = st.GetByName(ctx, ref)
		return err
	})
	if err != nil {
		return domain.Channel{}, perr.Wrapf(err, perr.ErrorCodeDB, "resolve channel %q", ref)
	}
	if ok {
		return defaulted(ch), nil
	}
	if id, found := builtins[ref]; found {
		return defaulted(domain.Channel{ID: id, Kind: domain.KindYouTube, Name: ref}), nil
	}
	return domain.Channel{}, perr.NotFoundf("channel %q not found", ref)
}

// Upsert implements domain.RegistryPort
func (s *Service) Upsert(ctx context.Context, ch domain.Channel) error {
	kind, err := domain.ParseKind(string(ch.Kind))
	if err != nil {
		return perr.InvalidArgf("channel kind %q", ch.Kind)
	}
	ch.Kind = kind

	ch.Name = strings.TrimSpace(ch.Name)
	if ch.Name == "" {
		return perr.InvalidArgf("channel name is required")
	}
	if ch.ID == "" {
		if kind != domain.KindVirtual {
			return perr.InvalidArgf("channel id is required for %s channels", kind)
		}
		// virtual channels have no upstream id; key them by registry name
		ch.ID = ch.Name
	}
	if kind == domain.KindVirtual && len(ch.VideoIDs) == 0 {
		return perr.InvalidArgf("virtual channel %q needs at least one video id", ch.Name)
	}
	ch = defaulted(ch)

	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Upsert(ctx, ch)
	})
	if err != nil {
		if perr.IsDuplicateKey(err) {
			return perr.Wrapf(err, perr.ErrorCodeDuplicateKey, "channel name %q already taken", ch.Name)
		}
		return perr.Wrapf(err, perr.ErrorCodeDB, "upsert channel %q", ch.Name)
	}
	return nil
}

// List implements domain.RegistryPort
func (s *Service) List(ctx context.Context) ([]domain.Channel, error) {
	var out []domain.Channel
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).List(ctx)
		return err
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list channels")
	}
	for i := range out {
		out[i] = defaulted(out[i])
	}
	return out, nil
}

// Seed implements domain.RegistryPort
// built-ins are inserted only when absent so operator edits survive restarts
func (s *Service) Seed(ctx context.Context) error {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		for _, name := range names {
			ch := defaulted(domain.Channel{ID: builtins[name], Kind: domain.KindYouTube, Name: name})
			if err := st.Ensure(ctx, ch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "seed channels")
	}
	return nil
}

// defaulted fills zero fields with registry defaults
func defaulted(ch domain.Channel) domain.Channel {
	if ch.Kind == "" {
		ch.Kind = domain.KindYouTube
	}
	if ch.Title == "" {
		ch.Title = ch.Name
	}
	if ch.Timezone == "" {
		ch.Timezone = period.DefaultTimezone
	}
	if ch.Language == "" {
		ch.Language = "en"
	}
	return ch
}
