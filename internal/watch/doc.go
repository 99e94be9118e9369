// Package watch reports changes to a directory tree as coalesced events.
//
// It backs live refresh for file-based stores: when another process (or a
// sync tool) rewrites the SQLite database or a diskv album file, the TUI
// receives one Event per burst and reloads if it is idle.
//
// # Usage
//
//	events, err := watch.Dir(ctx, dataDir,
//	    watch.WithFilter(func(p string) bool { return !strings.HasSuffix(p, "~") }))
//	if err != nil {
//	    return err
//	}
//	for range events {
//	    // reload
//	}
//
// Bursts of writes within DefaultDelay are merged. Events are dropped, not
// queued, while the consumer is busy; the next event covers them.
package watch
