// Package module provides the channels module
package module

import (
	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/channels/domain"
	"github.com/sliu810/razorback-investing/internal/services/channels/repo"
	"github.com/sliu810/razorback-investing/internal/services/channels/service"
)

// Ports exposed by the channels module
type Ports struct {
	Registry domain.RegistryPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new channels module
func New(deps modkit.Deps) *Module {
	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder)

	m := &Module{deps: deps}
	m.ports = Ports{Registry: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "channels" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
