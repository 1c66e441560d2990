// Factory registration for the Postgres backend. Programs get it by
// blank-importing bookvault/internal/storage/all; config selects it with
// store kind "postgres".
package postgres

import (
	"context"

	"bookvault/internal/storage"
)

// newRepository is a test hook that points to Open by default.
var newRepository = Open

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
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
