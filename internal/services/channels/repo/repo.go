// Package repo provides the channels repository implementation
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/channels/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the channels repository
type Storage interface {
	Get(ctx context.Context, id string) (domain.Channel, bool, error)
	GetByName(ctx context.Context, name string) (domain.Channel, bool, error)
	Upsert(ctx context.Context, ch domain.Channel) error
	Ensure(ctx context.Context, ch domain.Channel) error
	List(ctx context.Context) ([]domain.Channel, error)
}

type pg struct{ q repokit.Queryer }

const channelCols = `id, kind, name, title, timezone, language, COALESCE(video_ids, '{}'), created_at, updated_at`

// scanChannel scans one row in channelCols order
func scanChannel(sc interface{ Scan(dest ...any) error }) (domain.Channel, error) {
	var ch domain.Channel
	var kind string
	err := sc.Scan(
		&ch.ID, &kind, &ch.Name, &ch.Title, &ch.Timezone, &ch.Language,
		&ch.VideoIDs, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err != nil {
		return domain.Channel{}, err
	}
	ch.Kind = domain.Kind(kind)
	return ch, nil
}

func (s *pg) Get(ctx context.Context, id string) (domain.Channel, bool, error) {
	row := s.q.QueryRow(ctx, `SELECT `+channelCols+` FROM channels WHERE id = $1`, id)
	ch, err := scanChannel(row)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Channel{}, false, nil
		}
		return domain.Channel{}, false, err
	}
	return ch, true, nil
}

func (s *pg) GetByName(ctx context.Context, name string) (domain.Channel, bool, error) {
	row := s.q.QueryRow(ctx, `SELECT `+channelCols+` FROM channels WHERE name = $1`, name)
	ch, err := scanChannel(row)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Channel{}, false, nil
		}
		return domain.Channel{}, false, err
	}
	return ch, true, nil
}

func (s *pg) Upsert(ctx context.Context, ch domain.Channel) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO channels (id, kind, name, title, timezone, language, video_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			kind       = EXCLUDED.kind,
			name       = EXCLUDED.name,
			title      = EXCLUDED.title,
			timezone   = EXCLUDED.timezone,
			language   = EXCLUDED.language,
			video_ids  = EXCLUDED.video_ids,
			updated_at = NOW()`,
		ch.ID, string(ch.Kind), ch.Name, ch.Title, ch.Timezone, ch.Language, ch.VideoIDs,
	)
	return err
}

// Ensure inserts the channel only when the id is absent; existing rows win
func (s *pg) Ensure(ctx context.Context, ch domain.Channel) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO channels (id, kind, name, title, timezone, language, video_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING`,
		ch.ID, string(ch.Kind), ch.Name, ch.Title, ch.Timezone, ch.Language, ch.VideoIDs,
	)
	return err
}

func (s *pg) List(ctx context.Context) ([]domain.Channel, error) {
	rows, err := s.q.Query(ctx, `SELECT `+channelCols+` FROM channels ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}
