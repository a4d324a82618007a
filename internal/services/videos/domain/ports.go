package domain

import (
	"context"

	chandom "github.com/sliu810/razorback-investing/internal/services/channels/domain"
)

// Ports are dependencies injected into the videos module
type Ports struct {
	Registry chandom.RegistryPort // required
}

// FetcherPort pulls upstream videos into storage
type FetcherPort interface {
	// RefreshChannel resolves the channel and window, upserts what upstream
	// returns, and optionally fans out transcript fetches
	RefreshChannel(ctx context.Context, in RefreshInput) (RefreshReport, error)
}

// ReaderPort reads stored videos and transcripts
type ReaderPort interface {
	// List returns up to Limit videos ordered by (published_at, id)
	List(ctx context.Context, in ListInput) ([]Video, AfterKey, error)
	// Get returns one stored video
	Get(ctx context.Context, videoID string) (Video, error)
	// GetTranscript returns the stored transcript for a video
	GetTranscript(ctx context.Context, videoID string) (Transcript, error)
}
