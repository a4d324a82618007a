// Package module provides the curator module
package module

import (
	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/services/curator/domain"
	"github.com/sliu810/razorback-investing/internal/services/curator/repo"
	"github.com/sliu810/razorback-investing/internal/services/curator/service"
)

// Ports exposed by the curator module
type Ports struct {
	Worker   domain.WorkerPort
	Enqueuer domain.EnqueuePort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new curator module
// wiring must inject modkit.WithPorts(domain.Ports{...}) with the pipeline stages
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("curator"),
	}, opts...)...)

	injected, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("curator module: expected WithPorts(curator/domain.Ports)")
	}
	if injected.Fetcher == nil || injected.Summarizer == nil || injected.Digests == nil {
		panic("curator module: Ports missing a pipeline stage")
	}

	o := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), injected, service.Config{
		TickEvery:      o.TickEvery,
		LeaseFor:       o.LeaseFor,
		QueueTakeBatch: o.QueueTakeBatch,
		RetryBase:      o.RetryBase,
		MaxAttempts:    o.MaxAttempts,
		QuotaWait:      o.QuotaWait,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Worker: svc, Enqueuer: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "curator" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
