// This file wires the SQLite backend into the storage factory. Registration
// happens in init so callers never import this package directly; they
// blank-import bookvault/internal/storage/all instead.
package sqlite

import (
	"context"

	"bookvault/internal/storage"
)

// newRepository is a test hook that points to Open by default. Tests may
// replace it to avoid real connections.
var newRepository = Open

// wrappedRepo adapts *Repository to storage.Repository, adding a Close that
// calls the cleanup function returned by Open.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
