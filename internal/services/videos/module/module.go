// Package module provides the videos module
package module

import (
	"github.com/sliu810/razorback-investing/internal/adapters/captions"
	"github.com/sliu810/razorback-investing/internal/adapters/youtube"
	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/videos/domain"
	"github.com/sliu810/razorback-investing/internal/services/videos/repo"
	"github.com/sliu810/razorback-investing/internal/services/videos/service"
)

// Ports exposed by the videos module
type Ports struct {
	Fetcher domain.FetcherPort
	Reader  domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new videos module
// it owns the upstream adapters; wiring must inject
// modkit.WithPorts(domain.Ports{Registry: ...}) from the channels module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("videos"),
	}, opts...)...)

	injected, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("videos module: expected WithPorts(videos/domain.Ports)")
	}
	if injected.Registry == nil {
		panic("videos module: Ports missing Registry")
	}

	o := FromConfig(deps.Cfg)

	src := youtube.NewClient(youtube.Options{
		KeysCSV:    o.YouTubeKeysCSV,
		RPS:        o.YouTubeRPS,
		Burst:      o.YouTubeBurst,
		Timeout:    o.YouTubeTimeout,
		MaxRetries: o.YouTubeMaxRetries,
	})
	caps := captions.NewClient(captions.Options{
		Langs:      o.CaptionLangs,
		Timeout:    o.CaptionTimeout,
		MaxRetries: o.CaptionMaxRetries,
	})

	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), injected.Registry, src, caps, service.Config{
		HardLimit:    o.HardLimit,
		FetchWorkers: o.FetchWorkers,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Fetcher: svc, Reader: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "videos" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
