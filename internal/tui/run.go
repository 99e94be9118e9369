package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/album-ratings/internal/backend"
	"github.com/handiism/album-ratings/internal/collection"
	"github.com/handiism/album-ratings/internal/config"
	"github.com/handiism/album-ratings/internal/cover"
	apphttp "github.com/handiism/album-ratings/internal/http"
	"github.com/handiism/album-ratings/internal/watch"
)

// noticeBuffer is how many notices may wait for the UI.
const noticeBuffer = 64

// Run opens the configured store and starts the TUI application.
func Run(ctx context.Context, settings *config.Settings, verbose bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b, err := backend.Open(ctx, settings)
	if err != nil {
		return err
	}
	defer b.Close()

	notices := make(chan collection.Notice, noticeBuffer)
	sink := NoticeSink(notices)
	ctrl := collection.NewController(b.Store, settings.Sorter(), sink)

	opts := Options{
		Controller: ctrl,
		Notices:    notices,
		SortKey:    settings.SortKey(),
		Verbose:    verbose,
	}

	if settings.ShowCovers {
		client := apphttp.NewClient(settings.UserAgent, settings.Timeout())
		opts.Covers = cover.NewCache(client, settings.CoverWidth)
		opts.CoverLimit = settings.MaxConcurrentCoverDownload
	}

	if settings.WatchStore && b.WatchDir != "" {
		var wopts []watch.Option
		if b.WatchFilter != nil {
			wopts = append(wopts, watch.WithFilter(b.WatchFilter))
		}
		changes, err := watch.Dir(ctx, b.WatchDir, wopts...)
		if err != nil {
			sink(collection.Notice{
				Message: fmt.Sprintf("Live refresh disabled: %v", err),
				Level:   collection.LevelWarning,
				Err:     err,
			})
		} else {
			opts.Changes = changes
			sink(collection.Notice{
				Message: fmt.Sprintf("Watching %s for changes", b.WatchDir),
				Level:   collection.LevelVerbose,
			})
		}
	}

	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
