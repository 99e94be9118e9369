// Package backend builds the CollectionStore selected by the settings.
package backend

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/handiism/album-ratings/internal/config"
	apphttp "github.com/handiism/album-ratings/internal/http"
	"github.com/handiism/album-ratings/internal/store"
	"github.com/handiism/album-ratings/internal/store/diskv"
	"github.com/handiism/album-ratings/internal/store/memory"
	"github.com/handiism/album-ratings/internal/store/postgrest"
	"github.com/handiism/album-ratings/internal/store/sqlstore"
)

// Backend is an opened store together with what the caller needs to watch
// and close it.
type Backend struct {
	Store store.CollectionStore

	// Name is the configured backend, e.g. "sqlite".
	Name string

	// WatchDir is a directory whose changes mean the collection may have
	// changed outside this process. Empty for remote and in-memory stores.
	WatchDir string

	// WatchFilter reports whether a changed path under WatchDir belongs to
	// the store. Nil means every path does.
	WatchFilter func(path string) bool

	close func() error
}

// Close releases the underlying connection, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open validates s and opens its backend.
func Open(ctx context.Context, s *config.Settings) (*Backend, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{Name: s.Backend}

	switch s.Backend {
	case config.BackendMemory:
		b.Store = memory.New()

	case config.BackendPostgrest:
		client := apphttp.NewClient(s.UserAgent, s.Timeout())
		st, err := postgrest.New(s.SupabaseURL, s.SupabaseKey, s.Table, client)
		if err != nil {
			return nil, err
		}
		b.Store = st

	case config.BackendSQLite:
		st, err := sqlstore.Open(ctx, sqlstore.SQLite, s.DSN, s.Table)
		if err != nil {
			return nil, err
		}
		b.Store = st
		b.WatchDir = filepath.Dir(s.DSN)
		// albums.db plus its -wal and -journal companions
		db := filepath.Base(s.DSN)
		b.WatchFilter = func(path string) bool {
			return strings.HasPrefix(filepath.Base(path), db)
		}
		b.close = st.Close

	case config.BackendMySQL:
		st, err := sqlstore.Open(ctx, sqlstore.MySQL, s.DSN, s.Table)
		if err != nil {
			return nil, err
		}
		b.Store = st
		b.close = st.Close

	case config.BackendDiskv:
		st, err := diskv.New(s.DataDir)
		if err != nil {
			return nil, err
		}
		b.Store = st
		b.WatchDir = st.BasePath()
	}

	return b, nil
}
