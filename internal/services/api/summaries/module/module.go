// Package module wires the summaries API using modkit
package module

import (
	"net/http"

	modkit "github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	str "github.com/sliu810/razorback-investing/internal/platform/strings"

	shttp "github.com/sliu810/razorback-investing/internal/services/api/summaries/http"
	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
)

// Ports declares the injected reader port for this API module
type Ports struct {
	Reader sdom.ReaderPort
}

// Module implements the summaries API module
// it owns two route prefixes: /summaries for listings and /digests for
// rendered digests, both backed by the same reader port
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	reader    sdom.ReaderPort
	register  func(httpkit.Router)
}

// New constructs the summaries API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("summaries"),
		modkit.WithPrefix("/summaries"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Reader == nil {
		panic("summaries API module requires Reader port (from services/summaries)")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		reader:    injected.Reader,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		shttp.Register(r, injected.Reader)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
	r.Route("/digests", func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		shttp.RegisterDigests(rr, m.reader)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
