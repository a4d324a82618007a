// Package repo provides the videos repository implementation
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// ListFilter narrows List; the zero value spans all channels
type ListFilter struct {
	ChannelID string   // exact upstream channel
	VideoIDs  []string // restrict to these ids (virtual channels)
}

// Storage defines the videos repository
type Storage interface {
	UpsertVideos(ctx context.Context, xs []domain.Video) (int64, error)
	List(ctx context.Context, f ListFilter, in domain.ListInput, hardLimit int) ([]domain.Video, domain.AfterKey, error)
	Get(ctx context.Context, id string) (domain.Video, bool, error)

	MissingTranscripts(ctx context.Context, ids []string) ([]string, error)
	UpsertTranscript(ctx context.Context, t domain.Transcript) error
	GetTranscript(ctx context.Context, videoID string) (domain.Transcript, bool, error)
}

type pg struct{ q repokit.Queryer }

// UpsertVideos inserts new rows and reports how many were new
// re-fetched rows keep their stored shape so operator edits survive
func (s *pg) UpsertVideos(ctx context.Context, xs []domain.Video) (int64, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO videos
		(id, channel_id, channel_title, title, published_at, duration_minutes, url, fetched_at) VALUES `)

	args := make([]any, 0, len(xs)*8)
	for i, v := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*8 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7)

		args = append(args,
			v.ID, v.ChannelID, v.ChannelTitle, v.Title,
			v.PublishedAt, v.DurationMinutes, v.URL, v.FetchedAt,
		)
	}
	sb.WriteString(` ON CONFLICT (id) DO NOTHING`)

	ct, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

const videoCols = `id, channel_id, channel_title, title, published_at, duration_minutes, url, fetched_at`

func scanVideo(sc interface{ Scan(dest ...any) error }) (domain.Video, error) {
	var v domain.Video
	err := sc.Scan(
		&v.ID, &v.ChannelID, &v.ChannelTitle, &v.Title,
		&v.PublishedAt, &v.DurationMinutes, &v.URL, &v.FetchedAt,
	)
	return v, err
}

// List implements keyset pagination over (published_at, id)
func (s *pg) List(ctx context.Context, f ListFilter, in domain.ListInput, hardLimit int) ([]domain.Video, domain.AfterKey, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT ` + videoCols + `
		FROM videos
		WHERE published_at >= ` + arg(in.Since) + ` AND published_at <= ` + arg(in.Until) + "\n")

	if f.ChannelID != "" {
		sb.WriteString("  AND channel_id = " + arg(f.ChannelID) + "\n")
	}
	if len(f.VideoIDs) > 0 {
		sb.WriteString("  AND id = ANY(" + arg(f.VideoIDs) + ")\n")
	}

	// Keyset only when AfterKey is set (first page has no anchor)
	if in.After.ID != "" {
		sb.WriteString("  AND (published_at, id) > (" + arg(in.After.PublishedAt) + ", " + arg(in.After.ID) + ")\n")
	}

	sb.WriteString("ORDER BY published_at, id\nLIMIT " + arg(hardLimit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	defer rows.Close()

	out := make([]domain.Video, 0, hardLimit)
	var last domain.AfterKey
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, domain.AfterKey{}, err
		}
		out = append(out, v)
		last = domain.AfterKey{PublishedAt: v.PublishedAt, ID: v.ID}
	}
	return out, last, rows.Err()
}

func (s *pg) Get(ctx context.Context, id string) (domain.Video, bool, error) {
	row := s.q.QueryRow(ctx, `SELECT `+videoCols+` FROM videos WHERE id = $1`, id)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Video{}, false, nil
		}
		return domain.Video{}, false, err
	}
	return v, true, nil
}

// MissingTranscripts filters ids down to those without a stored transcript
func (s *pg) MissingTranscripts(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `
		SELECT cand.id
		FROM unnest($1::text[]) AS cand(id)
		WHERE NOT EXISTS (SELECT 1 FROM transcripts t WHERE t.video_id = cand.id)`,
		ids,
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

func (s *pg) UpsertTranscript(ctx context.Context, t domain.Transcript) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO transcripts (video_id, lang_code, source, text, lines, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (video_id) DO UPDATE SET
			lang_code  = EXCLUDED.lang_code,
			source     = EXCLUDED.source,
			text       = EXCLUDED.text,
			lines      = EXCLUDED.lines,
			fetched_at = EXCLUDED.fetched_at`,
		t.VideoID, t.LangCode, t.Source, t.Text, t.Lines, t.FetchedAt,
	)
	return err
}

func (s *pg) GetTranscript(ctx context.Context, videoID string) (domain.Transcript, bool, error) {
	row := s.q.QueryRow(ctx, `
		SELECT video_id, lang_code, source, text, lines, fetched_at
		FROM transcripts WHERE video_id = $1`, videoID)

	var t domain.Transcript
	err := row.Scan(&t.VideoID, &t.LangCode, &t.Source, &t.Text, &t.Lines, &t.FetchedAt)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Transcript{}, false, nil
		}
		return domain.Transcript{}, false, err
	}
	return t, true, nil
}
