// Package diskv implements store.CollectionStore as a directory of JSON
// files, one per album, managed by github.com/peterbourgon/diskv.
//
// Layout under the base path:
//
//	albums/<id>     JSON-encoded model.Album
//	meta/next-id    last id handed out, decimal
//
// The files are plain JSON so they can be edited, synced or versioned by
// other tools; the watch package turns such outside edits into reloads.
package diskv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/store"
)

const (
	albumPrefix = "albums-"
	nextIDKey   = "meta-next-id"
)

// Store is a file-per-album collection.
type Store struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
}

var _ store.CollectionStore = (*Store)(nil)

// New opens (or creates) a store rooted at basePath.
func New(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("diskv: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("diskv: ensure base path: %w", err)
	}

	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// No cache: files may change underneath us.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}, nil
}

// BasePath returns the directory holding the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// List reads every album file. Files that fail to decode are skipped.
func (s *Store) List(ctx context.Context) ([]model.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums := []model.Album{}
	for key := range s.d.Keys(ctx.Done()) {
		id, ok := albumID(key)
		if !ok {
			continue
		}
		a, err := s.read(key)
		if err != nil {
			// Half-written or hand-broken file; the next change event reloads.
			continue
		}
		a.ID = id
		albums = append(albums, a)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(albums, func(a, b model.Album) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return albums, nil
}

// Insert allocates the next id and writes the album file.
func (s *Store) Insert(ctx context.Context, candidate model.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.nextID()
	if err != nil {
		return err
	}
	if err := s.d.Write(nextIDKey, []byte(strconv.FormatInt(id, 10))); err != nil {
		return fmt.Errorf("diskv: write next id: %w", err)
	}
	return s.write(candidate.WithID(id))
}

// Update overwrites the file of the album with id.
func (s *Store) Update(ctx context.Context, id int64, fields model.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.d.Has(albumKey(id)) {
		return store.ErrNotFound
	}
	return s.write(fields.WithID(id))
}

// Delete removes the file of the album with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := albumKey(id)
	if !s.d.Has(key) {
		return store.ErrNotFound
	}
	return s.d.Erase(key)
}

func (s *Store) read(key string) (model.Album, error) {
	var a model.Album
	data, err := s.d.Read(key)
	if err != nil {
		return a, err
	}
	err = json.Unmarshal(data, &a)
	return a, err
}

func (s *Store) write(a model.Album) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return s.d.Write(albumKey(a.ID), data)
}

// nextID returns one more than both the stored counter and the highest id on
// disk, so a lost or stale counter never reuses an id.
func (s *Store) nextID() (int64, error) {
	var last int64
	if s.d.Has(nextIDKey) {
		data, err := s.d.Read(nextIDKey)
		if err != nil {
			return 0, fmt.Errorf("diskv: read next id: %w", err)
		}
		last, _ = strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	}
	for key := range s.d.Keys(nil) {
		if id, ok := albumID(key); ok && id > last {
			last = id
		}
	}
	return last + 1, nil
}

func albumKey(id int64) string {
	return albumPrefix + strconv.FormatInt(id, 10)
}

func albumID(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, albumPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// keyToPathTransform maps "albums-42" to albums/42.
func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "-")
	if len(parts) == 1 {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{
		Path:     parts[:1],
		FileName: strings.Join(parts[1:], "-"),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
