// Package module provides the summaries module
package module

import (
	"github.com/sliu810/razorback-investing/internal/adapters/llm"
	"github.com/sliu810/razorback-investing/internal/adapters/mail"
	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	"github.com/sliu810/razorback-investing/internal/services/summaries/repo"
	"github.com/sliu810/razorback-investing/internal/services/summaries/service"
)

// Ports exposed by the summaries module
type Ports struct {
	Summarizer domain.SummarizerPort
	Digests    domain.DigestPort
	Reader     domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new summaries module
// wiring must inject modkit.WithPorts(domain.Ports{Library: ..., Registry: ...})
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("summaries"),
	}, opts...)...)

	injected, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("summaries module: expected WithPorts(summaries/domain.Ports)")
	}
	if injected.Library == nil {
		panic("summaries module: Ports missing Library")
	}
	if injected.Registry == nil {
		panic("summaries module: Ports missing Registry")
	}

	o := FromConfig(deps.Cfg)

	completer := llm.NewClient(llm.Options{
		BaseURL:     o.LLMBaseURL,
		APIKey:      o.LLMAPIKey,
		Model:       o.LLMModel,
		MaxTokens:   o.LLMMaxTokens,
		Temperature: o.LLMTemperature,
		Timeout:     o.LLMTimeout,
		MaxRetries:  o.LLMMaxRetries,
	})
	mailer := mail.NewClient(mail.Options{
		Host:     o.MailHost,
		Port:     o.MailPort,
		Username: o.MailUsername,
		Password: o.MailPassword,
		From:     o.MailFrom,
	})

	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), injected.Registry, injected.Library,
		completer, mailer, service.Config{
			Role:       o.Role,
			Task:       o.Task,
			ChunkWords: o.ChunkWords,
			HardLimit:  o.HardLimit,
		})

	m := &Module{deps: deps}
	m.ports = Ports{Summarizer: svc, Digests: svc, Reader: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "summaries" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
