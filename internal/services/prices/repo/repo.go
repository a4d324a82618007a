// Package repo provides the daily bars repository over ClickHouse
package repo

import (
	"context"
	"time"

	"github.com/sliu810/razorback-investing/internal/platform/store"
	"github.com/sliu810/razorback-investing/internal/services/prices/domain"
)

// Storage defines the daily bars repository
type Storage interface {
	InsertBars(ctx context.Context, bars []domain.Bar) error
	DeleteBars(ctx context.Context, symbol string, since, until time.Time) error
	Series(ctx context.Context, symbol string, since, until time.Time) ([]domain.Bar, error)
}

// NewCH constructs the ClickHouse-backed Storage
// bars never touch Postgres, so there is no per-transaction Queryer to rebind
func NewCH(ch store.Clickhouse) Storage { return &chStore{ch: ch} }

type chStore struct{ ch store.Clickhouse }

const barCols = "symbol, day, open, high, low, close, volume"

func (s *chStore) InsertBars(ctx context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, []any{b.Symbol, b.Day, b.Open, b.High, b.Low, b.Close, b.Volume})
	}
	return s.ch.Insert(ctx, "razorback.daily_bars ("+barCols+")", rows)
}

// DeleteBars clears a window slice synchronously so re-ingest stays idempotent
func (s *chStore) DeleteBars(ctx context.Context, symbol string, since, until time.Time) error {
	return s.ch.Exec(ctx, `
		ALTER TABLE razorback.daily_bars
		DELETE WHERE symbol = ? AND day >= toDate(?) AND day <= toDate(?)
		SETTINGS mutations_sync=1`,
		symbol, chDay(since), chDay(until),
	)
}

// Series returns the window's bars oldest first
func (s *chStore) Series(ctx context.Context, symbol string, since, until time.Time) ([]domain.Bar, error) {
	rs, err := s.ch.Query(ctx, `
		SELECT `+barCols+`
		FROM razorback.daily_bars
		WHERE symbol = ? AND day >= toDate(?) AND day <= toDate(?)
		ORDER BY day`,
		symbol, chDay(since), chDay(until),
	)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []domain.Bar
	for rs.Next() {
		var b domain.Bar
		if err := rs.Scan(&b.Symbol, &b.Day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rs.Err()
}

// chDay renders a bound as a calendar day for toDate comparisons
// local timestamps keep their calendar day rather than shifting through UTC
func chDay(t time.Time) string { return t.Format("2006-01-02") }
