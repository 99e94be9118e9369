package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/album-ratings/internal/model"
)

// ErrNotFound is returned by Update and Delete when no album has the id.
var ErrNotFound = errors.New("album not found")

// CollectionStore is the remote persistence boundary of the collection.
//
// Implementations must be safe for concurrent use. The controller never
// overlaps calls, but the presentation layer may run them from a different
// goroutine than the one that created the store.
type CollectionStore interface {
	// List returns the full collection ordered by ascending ID.
	List(ctx context.Context) ([]model.Album, error)

	// Insert adds a new album. The assigned ID is not returned; callers learn
	// it from the next List.
	Insert(ctx context.Context, candidate model.Fields) error

	// Update overwrites the editable fields of the album with the given ID.
	Update(ctx context.Context, id int64, fields model.Fields) error

	// Delete removes the album with the given ID.
	Delete(ctx context.Context, id int64) error
}

// Op names a store operation for error reporting.
type Op string

const (
	OpList   Op = "list"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Error is a failure reported by a CollectionStore: transport, auth, or a
// rejection by the server.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *Error for op. Nil stays nil and an existing *Error
// is returned unchanged.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}
