package collection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/handiism/album-ratings/internal/gate"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/sorting"
	"github.com/handiism/album-ratings/internal/store"
)

// ErrReloadFailed is joined with the store error when a write was
// acknowledged but the reload that follows it failed. The collection still
// shows the snapshot from before the write.
var ErrReloadFailed = errors.New("write succeeded but reload failed")

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always is a Confirmer for intents the user already confirmed elsewhere.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// Controller owns the canonical album collection.
//
// Every operation performs one store call while holding the gate; writes are
// followed by a full reload inside the same gate window, so the collection
// only ever holds what the last successful List returned.
type Controller struct {
	store    store.CollectionStore
	gate     *gate.Gate
	sorter   sorting.Sorter
	onNotice func(Notice)

	mu     sync.RWMutex
	albums []model.Album
	loaded bool
}

// NewController creates a Controller over st. Notices are delivered to
// onNotice, which may be nil.
func NewController(st store.CollectionStore, sorter sorting.Sorter, onNotice func(Notice)) *Controller {
	return &Controller{
		store:    st,
		gate:     gate.New(),
		sorter:   sorter,
		onNotice: onNotice,
		albums:   []model.Album{},
	}
}

// Reload fetches the whole collection from the store.
//
// Until the first successful reload the gate is held as gate.Loading,
// afterwards as gate.Saving. A failed reload keeps the previous collection.
func (c *Controller) Reload(ctx context.Context) error {
	reason := gate.Saving
	if !c.Loaded() {
		reason = gate.Loading
	}

	release, err := c.gate.Acquire(reason)
	if err != nil {
		return err
	}
	defer release()

	return c.reload(ctx)
}

// Create validates candidate, inserts it and reloads.
func (c *Controller) Create(ctx context.Context, candidate model.Fields) error {
	if err := candidate.ValidateNew(); err != nil {
		c.notify(Notice{Message: fmt.Sprintf("Cannot add album: %v", err), Level: LevelError, Err: err})
		return err
	}

	release, err := c.gate.Acquire(gate.Saving)
	if err != nil {
		return err
	}
	defer release()

	if err := c.store.Insert(ctx, candidate); err != nil {
		err = store.Wrap(store.OpInsert, err)
		c.notify(Notice{Message: fmt.Sprintf("Failed to save album: %v", err), Level: LevelError, Err: err})
		return err
	}
	c.notify(Notice{Message: fmt.Sprintf("Added %s - %s", candidate.Artist, candidate.Title), Level: LevelSuccess})

	return c.reloadAfterWrite(ctx)
}

// Update writes fields to the album with the given id and reloads.
func (c *Controller) Update(ctx context.Context, id int64, fields model.Fields) error {
	if err := fields.Validate(); err != nil {
		c.notify(Notice{Message: fmt.Sprintf("Cannot update album: %v", err), Level: LevelError, Err: err})
		return err
	}

	release, err := c.gate.Acquire(gate.Saving)
	if err != nil {
		return err
	}
	defer release()

	if err := c.store.Update(ctx, id, fields); err != nil {
		err = store.Wrap(store.OpUpdate, err)
		c.notify(Notice{Message: fmt.Sprintf("Failed to update album: %v", err), Level: LevelError, Err: err})
		return err
	}
	c.notify(Notice{Message: fmt.Sprintf("Updated %s - %s", fields.Artist, fields.Title), Level: LevelSuccess})

	return c.reloadAfterWrite(ctx)
}

// Delete removes the album with the given id after confirm agrees.
//
// It reports whether a delete was attempted. A declined confirmation returns
// (false, nil) and changes nothing. While the gate is busy the user is not
// asked at all.
func (c *Controller) Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	if c.gate.Busy() {
		return false, gate.ErrBusy
	}

	prompt := "Delete this album?"
	if a, ok := c.Album(id); ok {
		prompt = fmt.Sprintf("Delete %s?", a)
	}
	if confirm == nil || !confirm.Confirm(prompt) {
		return false, nil
	}

	release, err := c.gate.Acquire(gate.Saving)
	if err != nil {
		return false, err
	}
	defer release()

	if err := c.store.Delete(ctx, id); err != nil {
		err = store.Wrap(store.OpDelete, err)
		c.notify(Notice{Message: fmt.Sprintf("Failed to delete album: %v", err), Level: LevelError, Err: err})
		return true, err
	}
	c.notify(Notice{Message: fmt.Sprintf("Deleted album %d", id), Level: LevelSuccess})

	return true, c.reloadAfterWrite(ctx)
}

// Albums returns a copy of the canonical collection in store order.
func (c *Controller) Albums() []model.Album {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.albums)
}

// Album returns a copy of the album with the given id.
func (c *Controller) Album(id int64) (model.Album, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.albums {
		if a.ID == id {
			return a, true
		}
	}
	return model.Album{}, false
}

// View returns the collection ordered by key.
func (c *Controller) View(key sorting.Key) []model.Album {
	return c.sorter.Sort(c.Albums(), key)
}

// Len returns the number of albums in the collection.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.albums)
}

// Loaded reports whether a reload ever succeeded.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Loading reports whether the cold-start load is in flight.
func (c *Controller) Loading() bool {
	return c.gate.Reason() == gate.Loading
}

// Saving reports whether a write, or a reload after the cold start, is in
// flight.
func (c *Controller) Saving() bool {
	return c.gate.Reason() == gate.Saving
}

// Busy reports whether any operation is in flight.
func (c *Controller) Busy() bool {
	return c.gate.Busy()
}

// reload must be called with the gate held.
func (c *Controller) reload(ctx context.Context) error {
	albums, err := c.store.List(ctx)
	if err != nil {
		err = store.Wrap(store.OpList, err)
		c.notify(Notice{Message: fmt.Sprintf("Failed to load albums: %v", err), Level: LevelError, Err: err})
		return err
	}
	if albums == nil {
		albums = []model.Album{}
	}

	c.mu.Lock()
	c.albums = slices.Clone(albums)
	c.loaded = true
	c.mu.Unlock()

	c.notify(Notice{Message: fmt.Sprintf("Loaded %d album(s)", len(albums)), Level: LevelVerbose})
	return nil
}

func (c *Controller) reloadAfterWrite(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return nil
}

func (c *Controller) notify(n Notice) {
	if c.onNotice != nil {
		c.onNotice(n)
	}
}
