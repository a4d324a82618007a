package domain

import (
	"context"

	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// Ports are the pipeline stages injected into the curator module
type Ports struct {
	Fetcher    vdom.FetcherPort    // required
	Summarizer sdom.SummarizerPort // required
	Digests    sdom.DigestPort     // required
}

// WorkerPort runs the long-lived queue processor
type WorkerPort interface {
	// Run leases and processes due jobs until ctx is done
	Run(ctx context.Context) error
	// RunOnce drains everything currently due, then returns
	RunOnce(ctx context.Context) (RunReport, error)
}

// EnqueuePort accepts refresh jobs for the worker
type EnqueuePort interface {
	Enqueue(ctx context.Context, in EnqueueInput) (Job, error)
}
