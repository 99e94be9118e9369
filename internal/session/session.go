package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/handiism/album-ratings/internal/collection"
	"github.com/handiism/album-ratings/internal/model"
)

var (
	// ErrSlotIdle is returned when a draft is edited or committed while its
	// slot has no open draft.
	ErrSlotIdle = errors.New("no draft is open")

	// ErrUnknownField is returned by SetField for a field that is not a
	// text column of an album.
	ErrUnknownField = errors.New("unknown field")
)

// Slot selects one of the two independent interaction slots.
type Slot int

const (
	// Add holds the draft of a new album.
	Add Slot = iota

	// Edit holds the working copy of one existing album.
	Edit
)

func (s Slot) String() string {
	switch s {
	case Add:
		return "add"
	case Edit:
		return "edit"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// State is the state of a slot.
type State int

const (
	Idle State = iota
	Open
)

// Field names a text column of a draft.
type Field string

const (
	FieldCover  Field = "cover"
	FieldTitle  Field = "title"
	FieldArtist Field = "artist"
	FieldReview Field = "review"
)

// Committer persists drafts. *collection.Controller implements it.
type Committer interface {
	Create(ctx context.Context, candidate model.Fields) error
	Update(ctx context.Context, id int64, fields model.Fields) error
}

// Session tracks at most one new-album draft and at most one in-place edit.
//
// Drafts are private copies: nothing done to them reaches the collection
// until Commit succeeds. The zero value is ready to use.
type Session struct {
	mu sync.Mutex

	addOpen bool
	add     model.Fields

	editOpen bool
	edit     model.Album
}

// New returns an idle Session.
func New() *Session {
	return &Session{}
}

// BeginAdd opens an empty new-album draft. It returns false and leaves the
// existing draft alone if the add slot is already open.
func (s *Session) BeginAdd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addOpen {
		return false
	}
	s.addOpen = true
	s.add = model.Fields{}
	return true
}

// Prefill opens the add slot with values imported from elsewhere, replacing
// whatever the add draft held.
func (s *Session) Prefill(f model.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addOpen = true
	s.add = f
}

// BeginEdit opens a working copy of album in the edit slot. An edit of a
// different album that was still open is discarded without saving.
func (s *Session) BeginEdit(album model.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editOpen = true
	s.edit = album
}

// SetField changes one text field of the draft in slot.
func (s *Session) SetField(slot Slot, field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.draft(slot)
	if err != nil {
		return err
	}
	switch field {
	case FieldCover:
		f.Cover = value
	case FieldTitle:
		f.Title = value
	case FieldArtist:
		f.Artist = value
	case FieldReview:
		f.Review = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	s.store(slot, f)
	return nil
}

// SetRating sets the star rating of the draft in slot, clamped to
// [0, model.MaxRating].
func (s *Session) SetRating(slot Slot, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.draft(slot)
	if err != nil {
		return err
	}
	f.Rating = model.ClampRating(rating)
	s.store(slot, f)
	return nil
}

// Commit hands the draft in slot to c. On success the slot returns to Idle;
// on failure the draft is kept exactly as it was so the user can resubmit.
//
// A write that was acknowledged but whose reload failed also closes the slot:
// resubmitting it would write the album twice.
func (s *Session) Commit(ctx context.Context, slot Slot, c Committer) error {
	s.mu.Lock()
	f, err := s.draft(slot)
	id := s.edit.ID
	s.mu.Unlock()
	if err != nil {
		return err
	}

	switch slot {
	case Add:
		err = c.Create(ctx, f)
	case Edit:
		err = c.Update(ctx, id, f)
	}
	if err != nil && !errors.Is(err, collection.ErrReloadFailed) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slot == Add {
		s.addOpen = false
		s.add = model.Fields{}
	} else if s.editOpen && s.edit.ID == id {
		s.editOpen = false
		s.edit = model.Album{}
	}
	return err
}

// Cancel discards the draft in slot.
func (s *Session) Cancel(slot Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case Add:
		s.addOpen = false
		s.add = model.Fields{}
	case Edit:
		s.editOpen = false
		s.edit = model.Album{}
	}
}

// State returns the state of slot.
func (s *Session) State(slot Slot) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if (slot == Add && s.addOpen) || (slot == Edit && s.editOpen) {
		return Open
	}
	return Idle
}

// AddDraft returns a copy of the new-album draft.
func (s *Session) AddDraft() (model.Fields, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add, s.addOpen
}

// EditDraft returns a copy of the edit draft, including the ID it targets.
func (s *Session) EditDraft() (model.Album, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit, s.editOpen
}

// Editing reports whether the album with the given id is being edited.
func (s *Session) Editing(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editOpen && s.edit.ID == id
}

// draft must be called with s.mu held.
func (s *Session) draft(slot Slot) (model.Fields, error) {
	switch slot {
	case Add:
		if !s.addOpen {
			return model.Fields{}, fmt.Errorf("%s: %w", slot, ErrSlotIdle)
		}
		return s.add, nil
	case Edit:
		if !s.editOpen {
			return model.Fields{}, fmt.Errorf("%s: %w", slot, ErrSlotIdle)
		}
		return s.edit.Fields(), nil
	default:
		return model.Fields{}, fmt.Errorf("unknown slot %s", slot)
	}
}

// store must be called with s.mu held.
func (s *Session) store(slot Slot, f model.Fields) {
	if slot == Add {
		s.add = f
		return
	}
	s.edit = f.WithID(s.edit.ID)
}
