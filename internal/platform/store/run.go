package store

import "context"

// RunInJob wraps ctx with the job id and calls fn inside the provided TxRunner
func RunInJob(ctx context.Context, tx TxRunner, jobID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithJob(ctx, jobID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
