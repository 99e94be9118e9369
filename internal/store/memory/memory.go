// Package memory provides an in-process CollectionStore.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/store"
)

// Store keeps albums in a map and hands out increasing IDs like a database
// sequence would.
type Store struct {
	mu     sync.RWMutex
	albums map[int64]model.Album
	nextID int64
}

var _ store.CollectionStore = (*Store)(nil)

// New returns a Store seeded with albums. Seed IDs are kept; the sequence
// continues after the largest one.
func New(seed ...model.Album) *Store {
	s := &Store{albums: make(map[int64]model.Album), nextID: 1}
	for _, a := range seed {
		s.albums[a.ID] = a
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]model.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Album, 0, len(s.albums))
	for _, a := range s.albums {
		result = append(result, a)
	}
	slices.SortFunc(result, func(a, b model.Album) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return result, nil
}

func (s *Store) Insert(ctx context.Context, candidate model.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.albums[id] = candidate.WithID(id)
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, fields model.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[id]; !ok {
		return store.ErrNotFound
	}
	s.albums[id] = fields.WithID(id)
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.albums, id)
	return nil
}
