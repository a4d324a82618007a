// Package repo provides the curator queue repository
package repo

import (
	"context"
	"time"

	"github.com/sliu810/razorback-investing/internal/modkit/repokit"
	"github.com/sliu810/razorback-investing/internal/services/curator/domain"
)

// Storage is the queue surface the worker needs
type Storage interface {
	Enqueue(ctx context.Context, j domain.Job) error
	Lease(ctx context.Context, n int, leaseFor time.Duration) ([]domain.Job, error)
	Ack(ctx context.Context, id string) error
	Nack(ctx context.Context, id string, backoff time.Duration, lastErr string) error
	Fail(ctx context.Context, id string, lastErr string) error
}

type (
	// PG is a Postgres curator repository
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG constructs a Postgres curator repository
func NewPG() repokit.Binder[Storage] { return PG{} }

// Bind binds a Queryer to a Postgres implementation of Storage
func (PG) Bind(q repokit.Queryer) Storage { return &queries{q: q} }

// Enqueue inserts a job in the queued state
func (r *queries) Enqueue(ctx context.Context, j domain.Job) error {
	const sql = `
		INSERT INTO curator_queue (
			id, channel_ref, period_type, number, tz,
			with_transcripts, with_summaries, email_to,
			state, attempts, next_attempt_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'queued', 0, NOW(), NOW(), NOW())
	`
	_, err := r.q.Exec(ctx, sql,
		j.ID, j.ChannelRef, j.PeriodType, j.Number, j.Tz,
		j.WithTranscripts, j.WithSummaries, j.EmailTo,
	)
	return err
}

// Lease reserves up to n due jobs for leaseFor
// a crashed worker's lease lapses on its own once next_attempt_at passes
func (r *queries) Lease(ctx context.Context, n int, leaseFor time.Duration) ([]domain.Job, error) {
	const sql = `
		WITH cte AS (
			SELECT id
			FROM curator_queue
			WHERE state IN ('queued', 'running') AND next_attempt_at <= NOW()
			ORDER BY next_attempt_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE curator_queue q
		SET state = 'running', next_attempt_at = NOW() + $2::interval, updated_at = NOW()
		FROM cte
		WHERE q.id = cte.id
		RETURNING q.id, q.channel_ref, q.period_type, q.number, q.tz,
		          q.with_transcripts, q.with_summaries, q.email_to, q.attempts
	`
	rows, err := r.q.Query(ctx, sql, n, leaseFor.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(
			&j.ID, &j.ChannelRef, &j.PeriodType, &j.Number, &j.Tz,
			&j.WithTranscripts, &j.WithSummaries, &j.EmailTo, &j.Attempts,
		); err != nil {
			return nil, err
		}
		j.State = domain.StateRunning
		out = append(out, j)
	}
	return out, rows.Err()
}

// Ack removes a finished job from the queue
func (r *queries) Ack(ctx context.Context, id string) error {
	const sql = `DELETE FROM curator_queue WHERE id = $1`
	_, err := r.q.Exec(ctx, sql, id)
	return err
}

// Nack requeues a failed job with a retry delay
func (r *queries) Nack(ctx context.Context, id string, backoff time.Duration, lastErr string) error {
	const sql = `
		UPDATE curator_queue
		SET state = 'queued',
		    attempts = attempts + 1,
		    last_error = LEFT($2, 500),
		    next_attempt_at = NOW() + $3::interval,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, sql, id, lastErr, backoff.String())
	return err
}

// Fail parks a job terminally; failed rows stay behind for inspection
func (r *queries) Fail(ctx context.Context, id string, lastErr string) error {
	const sql = `
		UPDATE curator_queue
		SET state = 'failed',
		    attempts = attempts + 1,
		    last_error = LEFT($2, 500),
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, sql, id, lastErr)
	return err
}
