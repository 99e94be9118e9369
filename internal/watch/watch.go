package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long a burst of writes is coalesced before one Event is
// sent.
const DefaultDelay = 100 * time.Millisecond

// Event reports that files under the watched directory changed.
type Event struct {
	// Paths lists the changed files in the burst, sorted. It is empty when
	// the watcher could not tell what changed (a watcher error).
	Paths []string
}

type options struct {
	delay  time.Duration
	filter func(path string) bool
}

// Option configures Dir.
type Option func(*options)

// WithDelay sets the coalescing delay.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithFilter drops changes for paths where keep returns false.
func WithFilter(keep func(path string) bool) Option {
	return func(o *options) { o.filter = keep }
}

// Dir streams change events for dir and its subdirectories until ctx is
// cancelled. The channel is closed when ctx is done or the watcher fails.
// Events are dropped rather than queued when the consumer is not ready.
func Dir(ctx context.Context, dir string, opts ...Option) (<-chan Event, error) {
	o := options{delay: DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}

	if dir == "" {
		return nil, errors.New("watch: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("watch: ensure %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	dirs, err := collectDirs(dir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch: enumerate directories: %w", err)
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch: %s: %w", d, err)
		}
	}

	events := make(chan Event, 1)

	go func() {
		defer close(events)
		defer watcher.Close()

		watched := make(map[string]struct{}, len(dirs))
		for _, d := range dirs {
			watched[d] = struct{}{}
		}

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newThrottle(o.delay, send)
		defer throttle.stop()

		for {
			select {
			case <-ctx.Done():
				return

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.enqueue("")

			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						d := filepath.Clean(evt.Name)
						if _, found := watched[d]; !found {
							if err := watcher.Add(d); err == nil {
								watched[d] = struct{}{}
							}
						}
						continue
					}
				}

				if o.filter != nil && !o.filter(evt.Name) {
					continue
				}
				throttle.enqueue(evt.Name)
			}
		}
	}()

	return events, nil
}

func collectDirs(base string) ([]string, error) {
	dirs := []string{filepath.Clean(base)}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, filepath.Clean(path))
		}
		return nil
	})
	return dirs, err
}

// throttle coalesces a burst of changes into a single send.
type throttle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
	send    func(Event)
}

func newThrottle(delay time.Duration, send func(Event)) *throttle {
	return &throttle{
		delay:   delay,
		send:    send,
		pending: make(map[string]struct{}),
	}
}

// enqueue records path; an empty path means "unknown change".
func (t *throttle) enqueue(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if path != "" {
		t.pending[path] = struct{}{}
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

func (t *throttle) flush() {
	t.mu.Lock()
	paths := make([]string, 0, len(t.pending))
	for p := range t.pending {
		paths = append(paths, p)
	}
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	slices.Sort(paths)
	t.send(Event{Paths: paths})
}

func (t *throttle) stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
