// Package module provides the prices module
package module

import (
	"github.com/sliu810/razorback-investing/internal/adapters/markets"
	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/services/prices/domain"
	"github.com/sliu810/razorback-investing/internal/services/prices/repo"
	"github.com/sliu810/razorback-investing/internal/services/prices/service"
)

// Ports exposed by the prices module
type Ports struct {
	Quotes domain.QuotePort
	Ingest domain.IngestPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new prices module over the ClickHouse seam
func New(deps modkit.Deps) *Module {
	if deps.CH == nil {
		panic("prices module requires a ClickHouse store")
	}
	opts := FromConfig(deps.Cfg)

	src := markets.NewClient(markets.Options{
		BaseURL:    opts.MarketsBaseURL,
		UserAgent:  opts.MarketsUserAgent,
		Timeout:    opts.MarketsTimeout,
		MaxRetries: opts.MarketsMaxRetries,
		RetryBase:  opts.MarketsRetryBase,
		MaxDelay:   opts.MarketsMaxDelay,
	})
	svc := service.New(repo.NewCH(deps.CH), src, service.Config{Timezone: opts.Timezone})

	m := &Module{deps: deps}
	m.ports = Ports{Quotes: svc, Ingest: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "prices" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
