package domain

import (
	"context"
	"time"

	chandom "github.com/sliu810/razorback-investing/internal/services/channels/domain"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// Ports are dependencies injected into the summaries module
type Ports struct {
	Library  vdom.ReaderPort      // required
	Registry chandom.RegistryPort // required
}

// SummarizerPort produces and stores model summaries
type SummarizerPort interface {
	// SummarizeVideo summarizes one stored transcript; a video without a
	// transcript is a conflict
	SummarizeVideo(ctx context.Context, in SummarizeInput) (Summary, error)
	// SummarizeWindow summarizes every stored video in the window that
	// lacks a summary for the (role, task) pair
	SummarizeWindow(ctx context.Context, in WindowInput) (WindowReport, error)
}

// DigestPort renders and emails summary digests
type DigestPort interface {
	// BuildDigest renders the window's summaries; empty digests are not stored
	BuildDigest(ctx context.Context, channelRef string, since, until time.Time) (Digest, error)
	// EmailDigest sends a stored digest
	EmailDigest(ctx context.Context, digestID string, to []string) error
}

// ReaderPort reads stored summaries and digests
type ReaderPort interface {
	List(ctx context.Context, in ListInput) ([]Item, error)
	LatestDigest(ctx context.Context, channelRef string) (Digest, error)
}
