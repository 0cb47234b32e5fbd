package storage

import (
	"context"
	"errors"

	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/metrics"
)

// ErrTransactionsUnsupported is returned by a store that cannot open a
// multi-document transaction in its current deployment.
var ErrTransactionsUnsupported = errors.New("transactions are not supported by this deployment")

type transaction interface {
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
}

// Unit runs a piece of work inside a store transaction. When the store
// reports that transactions are unsupported the work runs once more
// without one.
type Unit struct {
	driver      string
	begin       func(ctx context.Context) (context.Context, transaction, error)
	unsupported func(err error) bool
}

func (u *Unit) Run(ctx context.Context, work func(ctx context.Context) error) error {
	txCtx, tx, err := u.begin(ctx)
	if err != nil {
		if u.unsupported(err) {
			return u.degrade(ctx, err, work)
		}
		return err
	}

	if err := work(txCtx); err != nil {
		_ = tx.Abort(ctx)
		if u.unsupported(err) {
			return u.degrade(ctx, err, work)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Abort(ctx)
		if u.unsupported(err) {
			return u.degrade(ctx, err, work)
		}
		return err
	}
	return nil
}

func (u *Unit) degrade(ctx context.Context, cause error, work func(ctx context.Context) error) error {
	logger.FromContext(ctx).Warn().
		Err(cause).
		Str("driver", u.driver).
		Msg("transactions unavailable, running unit of work without atomicity")
	metrics.UnitOfWorkDegraded.WithLabelValues(u.driver).Inc()
	return work(ctx)
}
