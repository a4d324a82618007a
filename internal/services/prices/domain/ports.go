package domain

import (
	"context"

	"github.com/sliu810/razorback-investing/internal/core/period"
)

// QuotePort reads stored bars and the analytics derived from them
type QuotePort interface {
	// Window resolves a trader period key (1d, 5d, 1m, ..., 20y, ytd)
	Window(periodKey string) (period.Range, error)
	// Performance returns the edge-close move for the period
	Performance(ctx context.Context, symbol, periodKey string) (Performance, error)
	// Series returns stored bars inside the window, oldest first
	Series(ctx context.Context, symbol string, rng period.Range) ([]Bar, error)
	// Demark returns TD Setup and Countdown marks over the window's bars
	Demark(ctx context.Context, symbol string, rng period.Range) ([]Signal, error)
}

// IngestPort pulls upstream daily bars into storage
type IngestPort interface {
	IngestDaily(ctx context.Context, symbol string, rng period.Range) (IngestReport, error)
}
