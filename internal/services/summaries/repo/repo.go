// Package repo provides the summaries repository implementation
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/summaries/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Filter narrows summary listings; the zero value spans all channels
type Filter struct {
	ChannelID string
	VideoIDs  []string
	Role      string
	Task      string
}

// Storage defines the summaries repository
type Storage interface {
	UpsertSummary(ctx context.Context, s domain.Summary) error
	MissingSummaries(ctx context.Context, videoIDs []string, role, task string) ([]string, error)
	List(ctx context.Context, f Filter, since, until time.Time, hardLimit int) ([]domain.Item, error)
	ByVideoIDs(ctx context.Context, ids []string, role, task string) ([]domain.Item, error)

	InsertDigest(ctx context.Context, d domain.Digest) error
	GetDigest(ctx context.Context, id string) (domain.Digest, bool, error)
	LatestDigest(ctx context.Context, channelID string) (domain.Digest, bool, error)
}

type pg struct{ q repokit.Queryer }

func (s *pg) UpsertSummary(ctx context.Context, sm domain.Summary) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO summaries (id, video_id, role, task, model, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (video_id, role, task) DO UPDATE SET
			model      = EXCLUDED.model,
			body       = EXCLUDED.body,
			created_at = EXCLUDED.created_at`,
		sm.ID, sm.VideoID, sm.Role, sm.Task, sm.Model, sm.Text, sm.CreatedAt,
	)
	return err
}

// MissingSummaries filters ids down to those without a stored (role, task) summary
func (s *pg) MissingSummaries(ctx context.Context, videoIDs []string, role, task string) ([]string, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `
		SELECT cand.id
		FROM unnest($1::text[]) AS cand(id)
		WHERE NOT EXISTS (
			SELECT 1 FROM summaries sm
			WHERE sm.video_id = cand.id AND sm.role = $2 AND sm.task = $3
		)`,
		videoIDs, role, task,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

const itemCols = `
	sm.id::text, sm.video_id, sm.role, sm.task, sm.model, sm.body, sm.created_at,
	v.title, v.url, v.published_at`

func scanItem(sc interface{ Scan(dest ...any) error }) (domain.Item, error) {
	var it domain.Item
	err := sc.Scan(
		&it.ID, &it.VideoID, &it.Role, &it.Task, &it.Model, &it.Text, &it.CreatedAt,
		&it.VideoTitle, &it.VideoURL, &it.PublishedAt,
	)
	return it, err
}

// List joins summaries with their videos, ordered by published_at
func (s *pg) List(ctx context.Context, f Filter, since, until time.Time, hardLimit int) ([]domain.Item, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT ` + itemCols + `
		FROM summaries sm
		JOIN videos v ON v.id = sm.video_id
		WHERE v.published_at >= ` + arg(since) + ` AND v.published_at <= ` + arg(until) + "\n")

	if f.ChannelID != "" {
		sb.WriteString("  AND v.channel_id = " + arg(f.ChannelID) + "\n")
	}
	if len(f.VideoIDs) > 0 {
		sb.WriteString("  AND sm.video_id = ANY(" + arg(f.VideoIDs) + ")\n")
	}
	if f.Role != "" {
		sb.WriteString("  AND sm.role = " + arg(f.Role) + "\n")
	}
	if f.Task != "" {
		sb.WriteString("  AND sm.task = " + arg(f.Task) + "\n")
	}

	sb.WriteString("ORDER BY v.published_at, sm.video_id\nLIMIT " + arg(hardLimit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Item, 0, hardLimit)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ByVideoIDs returns the (role, task) summaries for the given videos, ordered by published_at
func (s *pg) ByVideoIDs(ctx context.Context, ids []string, role, task string) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `
		SELECT `+itemCols+`
		FROM summaries sm
		JOIN videos v ON v.id = sm.video_id
		WHERE sm.video_id = ANY($1) AND sm.role = $2 AND sm.task = $3
		ORDER BY v.published_at, sm.video_id`,
		ids, role, task,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

const digestCols = `id::text, channel_id, channel_name, window_start, window_end, video_count, html, csv, body, created_at`

func scanDigest(sc interface{ Scan(dest ...any) error }) (domain.Digest, error) {
	var d domain.Digest
	err := sc.Scan(
		&d.ID, &d.ChannelID, &d.ChannelName, &d.WindowStart, &d.WindowEnd,
		&d.VideoCount, &d.HTML, &d.CSV, &d.Text, &d.CreatedAt,
	)
	return d, err
}

func (s *pg) InsertDigest(ctx context.Context, d domain.Digest) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO digests
			(id, channel_id, channel_name, window_start, window_end, video_count, html, csv, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.ChannelID, d.ChannelName, d.WindowStart, d.WindowEnd,
		d.VideoCount, d.HTML, d.CSV, d.Text, d.CreatedAt,
	)
	return err
}

func (s *pg) GetDigest(ctx context.Context, id string) (domain.Digest, bool, error) {
	row := s.q.QueryRow(ctx, `SELECT `+digestCols+` FROM digests WHERE id = $1`, id)
	d, err := scanDigest(row)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Digest{}, false, nil
		}
		return domain.Digest{}, false, err
	}
	return d, true, nil
}

func (s *pg) LatestDigest(ctx context.Context, channelID string) (domain.Digest, bool, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+digestCols+` FROM digests
		WHERE channel_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, channelID)
	d, err := scanDigest(row)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Digest{}, false, nil
		}
		return domain.Digest{}, false, err
	}
	return d, true, nil
}
