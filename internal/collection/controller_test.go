package collection

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/handiism/album-ratings/internal/gate"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/sorting"
	"github.com/handiism/album-ratings/internal/store"
	"github.com/handiism/album-ratings/internal/store/memory"
)

var errBoom = errors.New("boom")

// recordingStore wraps a memory store, counts calls and injects failures.
type recordingStore struct {
	*memory.Store

	mu    sync.Mutex
	calls map[store.Op]int
	fail  map[store.Op]error

	// When hold is set, the next Insert signals entered and waits for hold.
	hold    chan struct{}
	entered chan struct{}
}

func newRecordingStore(seed ...model.Album) *recordingStore {
	return &recordingStore{
		Store: memory.New(seed...),
		calls: make(map[store.Op]int),
		fail:  make(map[store.Op]error),
	}
}

func (s *recordingStore) record(op store.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.fail[op]
}

func (s *recordingStore) count(op store.Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *recordingStore) failOn(op store.Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *recordingStore) List(ctx context.Context) ([]model.Album, error) {
	if err := s.record(store.OpList); err != nil {
		return nil, err
	}
	return s.Store.List(ctx)
}

func (s *recordingStore) Insert(ctx context.Context, f model.Fields) error {
	if s.hold != nil {
		s.entered <- struct{}{}
		<-s.hold
	}
	if err := s.record(store.OpInsert); err != nil {
		return err
	}
	return s.Store.Insert(ctx, f)
}

func (s *recordingStore) Update(ctx context.Context, id int64, f model.Fields) error {
	if err := s.record(store.OpUpdate); err != nil {
		return err
	}
	return s.Store.Update(ctx, id, f)
}

func (s *recordingStore) Delete(ctx context.Context, id int64) error {
	if err := s.record(store.OpDelete); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *noticeLog) add(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *noticeLog) errors() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, notice := range l.notices {
		if notice.Level == LevelError {
			n++
		}
	}
	return n
}

func seedAlbums() []model.Album {
	return []model.Album{
		{ID: 1, Title: "B", Artist: "X", Rating: 3},
		{ID: 2, Title: "A", Artist: "Y", Rating: 5},
	}
}

func newTestController(t *testing.T, seed ...model.Album) (*Controller, *recordingStore, *noticeLog) {
	t.Helper()
	st := newRecordingStore(seed...)
	log := &noticeLog{}
	return NewController(st, sorting.Sorter{}, log.add), st, log
}

func mustList(t *testing.T, st *recordingStore) []model.Album {
	t.Helper()
	albums, err := st.Store.List(context.Background())
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	return albums
}

func TestController_Reload(t *testing.T) {
	ctx := context.Background()
	ctrl, st, _ := newTestController(t, seedAlbums()...)

	if ctrl.Loaded() {
		t.Fatal("controller should not be loaded before Reload")
	}
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if !ctrl.Loaded() {
		t.Error("Loaded() = false after successful Reload")
	}
	if !slices.Equal(ctrl.Albums(), mustList(t, st)) {
		t.Errorf("Albums() = %v, want %v", ctrl.Albums(), mustList(t, st))
	}
	if ctrl.Busy() {
		t.Error("controller still busy after Reload")
	}
}

func TestController_ReloadFailureKeepsLastGood(t *testing.T) {
	ctx := context.Background()
	ctrl, st, log := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	before := ctrl.Albums()

	st.failOn(store.OpList, errBoom)
	err := ctrl.Reload(ctx)

	var se *store.Error
	if !errors.As(err, &se) || se.Op != store.OpList {
		t.Fatalf("Reload() = %v, want *store.Error for list", err)
	}
	if !slices.Equal(ctrl.Albums(), before) {
		t.Errorf("failed Reload changed the collection to %v", ctrl.Albums())
	}
	if log.errors() != 1 {
		t.Errorf("got %d error notices, want 1", log.errors())
	}
	if ctrl.Busy() {
		t.Error("controller still busy after failed Reload")
	}
}

func TestController_CreateValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		fields model.Fields
	}{
		{"empty title", model.Fields{Title: "", Artist: "Y"}},
		{"empty artist", model.Fields{Title: "T", Artist: ""}},
		{"bad rating", model.Fields{Title: "T", Artist: "Y", Rating: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, st, log := newTestController(t, seedAlbums()...)
			if err := ctrl.Reload(ctx); err != nil {
				t.Fatalf("Reload() = %v", err)
			}
			before := ctrl.Albums()
			lists := st.count(store.OpList)

			err := ctrl.Create(ctx, tt.fields)

			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() = %v, want *model.ValidationError", err)
			}
			if n := st.count(store.OpInsert); n != 0 {
				t.Errorf("Insert called %d times, want 0", n)
			}
			if n := st.count(store.OpList); n != lists {
				t.Errorf("List called after validation failure")
			}
			if !slices.Equal(ctrl.Albums(), before) {
				t.Errorf("collection changed to %v", ctrl.Albums())
			}
			if log.errors() != 1 {
				t.Errorf("got %d error notices, want 1", log.errors())
			}
		})
	}
}

func TestController_MutationsReloadFromStore(t *testing.T) {
	ctx := context.Background()
	ctrl, st, _ := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	if err := ctrl.Create(ctx, model.Fields{Title: "C", Artist: "Z", Rating: 4}); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if got, want := ctrl.Albums(), mustList(t, st); !slices.Equal(got, want) {
		t.Errorf("after Create: Albums() = %v, want %v", got, want)
	}
	if ctrl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ctrl.Len())
	}

	if err := ctrl.Update(ctx, 1, model.Fields{Title: "B", Artist: "X", Rating: 1}); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if got, want := ctrl.Albums(), mustList(t, st); !slices.Equal(got, want) {
		t.Errorf("after Update: Albums() = %v, want %v", got, want)
	}
	if a, _ := ctrl.Album(1); a.Rating != 1 {
		t.Errorf("Album(1).Rating = %d, want 1", a.Rating)
	}

	deleted, err := ctrl.Delete(ctx, 2, Always)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}
	if got, want := ctrl.Albums(), mustList(t, st); !slices.Equal(got, want) {
		t.Errorf("after Delete: Albums() = %v, want %v", got, want)
	}
	if _, ok := ctrl.Album(2); ok {
		t.Error("deleted album still present")
	}
}

func TestController_ReloadSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	ctrl, st, _ := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	// Another user inserts directly into the shared store.
	if err := st.Store.Insert(ctx, model.Fields{Title: "Other", Artist: "O"}); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Create(ctx, model.Fields{Title: "Mine", Artist: "M"}); err != nil {
		t.Fatalf("Create() = %v", err)
	}

	if got, want := ctrl.Albums(), mustList(t, st); !slices.Equal(got, want) {
		t.Errorf("Albums() = %v, want %v", got, want)
	}
	if ctrl.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ctrl.Len())
	}
}

func TestController_StoreFailureSurfaced(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		op   store.Op
		run  func(*Controller) error
	}{
		{"insert", store.OpInsert, func(c *Controller) error {
			return c.Create(ctx, model.Fields{Title: "T", Artist: "A"})
		}},
		{"update", store.OpUpdate, func(c *Controller) error {
			return c.Update(ctx, 1, model.Fields{Title: "T", Artist: "A"})
		}},
		{"delete", store.OpDelete, func(c *Controller) error {
			_, err := c.Delete(ctx, 1, Always)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, st, log := newTestController(t, seedAlbums()...)
			if err := ctrl.Reload(ctx); err != nil {
				t.Fatalf("Reload() = %v", err)
			}
			before := ctrl.Albums()
			lists := st.count(store.OpList)
			st.failOn(tt.op, errBoom)

			err := tt.run(ctrl)

			var se *store.Error
			if !errors.As(err, &se) || se.Op != tt.op {
				t.Fatalf("err = %v, want *store.Error for %s", err, tt.op)
			}
			if errors.Is(err, ErrReloadFailed) {
				t.Error("a failed write must not report ErrReloadFailed")
			}
			if st.count(store.OpList) != lists {
				t.Error("failed write triggered a reload")
			}
			if ctrl.Saving() || ctrl.Busy() {
				t.Error("saving flag not cleared after failure")
			}
			if !slices.Equal(ctrl.Albums(), before) {
				t.Errorf("collection changed to %v", ctrl.Albums())
			}
			if log.errors() != 1 {
				t.Errorf("got %d error notices, want 1", log.errors())
			}
		})
	}
}

func TestController_InsertOKReloadFails(t *testing.T) {
	ctx := context.Background()
	ctrl, st, log := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	before := ctrl.Albums()

	st.failOn(store.OpList, errBoom)
	err := ctrl.Create(ctx, model.Fields{Title: "New", Artist: "N"})

	if !errors.Is(err, ErrReloadFailed) {
		t.Fatalf("Create() = %v, want ErrReloadFailed", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("Create() = %v, should wrap the list failure", err)
	}
	if ctrl.Saving() {
		t.Error("saving flag not cleared")
	}
	if !slices.Equal(ctrl.Albums(), before) {
		t.Errorf("collection = %v, want pre-mutation snapshot %v", ctrl.Albums(), before)
	}
	if log.errors() != 1 {
		t.Errorf("got %d error notices, want 1", log.errors())
	}
	// The write did land remotely.
	if n := len(mustList(t, st)); n != 3 {
		t.Errorf("store holds %d albums, want 3", n)
	}
}

func TestController_GateRejectsWhileSaving(t *testing.T) {
	ctx := context.Background()
	ctrl, st, _ := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	st.hold = make(chan struct{})
	st.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Create(ctx, model.Fields{Title: "Slow", Artist: "S"})
	}()
	<-st.entered

	if !ctrl.Saving() {
		t.Error("Saving() = false while an insert is in flight")
	}
	if ctrl.Loading() {
		t.Error("Loading() = true after the first load")
	}

	asked := false
	confirm := ConfirmFunc(func(string) bool { asked = true; return true })

	if err := ctrl.Update(ctx, 1, model.Fields{Title: "B", Artist: "X"}); !errors.Is(err, gate.ErrBusy) {
		t.Errorf("Update() while saving = %v, want ErrBusy", err)
	}
	if deleted, err := ctrl.Delete(ctx, 1, confirm); deleted || !errors.Is(err, gate.ErrBusy) {
		t.Errorf("Delete() while saving = %v, %v, want false, ErrBusy", deleted, err)
	}
	if asked {
		t.Error("confirmation requested while busy")
	}
	if err := ctrl.Reload(ctx); !errors.Is(err, gate.ErrBusy) {
		t.Errorf("Reload() while saving = %v, want ErrBusy", err)
	}

	// A second create would block on hold if it reached the store, so it
	// must be rejected before Insert.
	if err := ctrl.Create(ctx, model.Fields{Title: "Second", Artist: "S"}); !errors.Is(err, gate.ErrBusy) {
		t.Errorf("Create() while saving = %v, want ErrBusy", err)
	}

	close(st.hold)
	if err := <-done; err != nil {
		t.Fatalf("first Create() = %v", err)
	}

	if n := st.count(store.OpInsert); n != 1 {
		t.Errorf("Insert called %d times, want 1", n)
	}
	if n := st.count(store.OpUpdate); n != 0 {
		t.Errorf("Update called %d times, want 0", n)
	}
	if n := st.count(store.OpDelete); n != 0 {
		t.Errorf("Delete called %d times, want 0", n)
	}
	if ctrl.Busy() {
		t.Error("controller still busy")
	}
}

func TestController_DeleteDeclined(t *testing.T) {
	ctx := context.Background()
	ctrl, st, log := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	before := ctrl.Albums()

	var prompt string
	deleted, err := ctrl.Delete(ctx, 1, ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))

	if deleted || err != nil {
		t.Errorf("Delete() = %v, %v, want false, nil", deleted, err)
	}
	if prompt != "Delete X - B?" {
		t.Errorf("prompt = %q", prompt)
	}
	if n := st.count(store.OpDelete); n != 0 {
		t.Errorf("store Delete called %d times, want 0", n)
	}
	if !slices.Equal(ctrl.Albums(), before) {
		t.Error("declined delete changed the collection")
	}
	if log.errors() != 0 {
		t.Error("declined delete produced an error notice")
	}

	if deleted, err := ctrl.Delete(ctx, 1, nil); deleted || err != nil {
		t.Errorf("Delete(nil confirmer) = %v, %v, want false, nil", deleted, err)
	}
	if n := st.count(store.OpDelete); n != 0 {
		t.Errorf("store Delete called %d times, want 0", n)
	}
}

func TestController_LoadingOnlyForColdStart(t *testing.T) {
	ctx := context.Background()
	st := newRecordingStore(seedAlbums()...)
	var sawLoading, sawSaving bool

	var ctrl *Controller
	probe := &probeStore{recordingStore: st, onList: func() {
		sawLoading = sawLoading || ctrl.Loading()
		sawSaving = sawSaving || ctrl.Saving()
	}}
	ctrl = NewController(probe, sorting.Sorter{}, nil)

	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if !sawLoading || sawSaving {
		t.Errorf("first reload: loading=%v saving=%v, want true false", sawLoading, sawSaving)
	}

	sawLoading, sawSaving = false, false
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if sawLoading || !sawSaving {
		t.Errorf("second reload: loading=%v saving=%v, want false true", sawLoading, sawSaving)
	}
}

type probeStore struct {
	*recordingStore
	onList func()
}

func (p *probeStore) List(ctx context.Context) ([]model.Album, error) {
	p.onList()
	return p.recordingStore.List(ctx)
}

func TestController_ViewSorts(t *testing.T) {
	ctx := context.Background()
	ctrl, _, _ := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	view := ctrl.View(sorting.TitleAsc)
	if view[0].ID != 2 || view[1].ID != 1 {
		t.Errorf("View(title-asc) = %v", view)
	}
	if albums := ctrl.Albums(); albums[0].ID != 1 {
		t.Error("View reordered the canonical collection")
	}
}

func TestController_AlbumsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	ctrl, _, _ := newTestController(t, seedAlbums()...)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	albums := ctrl.Albums()
	albums[0].Title = "mutated"

	if a, _ := ctrl.Album(1); a.Title != "B" {
		t.Errorf("canonical album mutated through a copy: %q", a.Title)
	}
}
