package commands

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/backend"
	"github.com/handiism/album-ratings/internal/collection"
	"github.com/handiism/album-ratings/internal/config"
)

var noticeStyles = map[collection.NoticeLevel]struct {
	prefix string
	color  *color.Color
}{
	collection.LevelError:   {"✗ ", color.New(color.FgRed)},
	collection.LevelWarning: {"! ", color.New(color.FgYellow)},
	collection.LevelSuccess: {"✓ ", color.New(color.FgGreen)},
	collection.LevelInfo:    {"› ", color.New(color.FgCyan)},
	collection.LevelVerbose: {"  ", color.New(color.Faint)},
}

// app is one command's view of the collection.
type app struct {
	settings *config.Settings
	backend  *backend.Backend
	ctrl     *collection.Controller

	out     io.Writer
	errOut  io.Writer
	verbose bool

	reported atomic.Bool
}

// loadSettings reads the settings file and overlays the environment.
func loadSettings(opts *rootOptions) (*config.Settings, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// openApp opens the configured backend and cold-loads the collection.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}

	b, err := backend.Open(cmd.Context(), settings)
	if err != nil {
		return nil, err
	}

	a := &app{
		settings: settings,
		backend:  b,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		verbose:  opts.verbose,
	}
	a.ctrl = collection.NewController(b.Store, settings.Sorter(), a.notice)
	a.notice(collection.Notice{Message: "Using " + b.Name + " backend", Level: collection.LevelVerbose})

	if err := a.ctrl.Reload(cmd.Context()); err != nil {
		_ = b.Close()
		return nil, a.fail(err)
	}
	return a, nil
}

func (a *app) Close() error {
	return a.backend.Close()
}

// notice prints n to stderr so stdout stays clean for data.
func (a *app) notice(n collection.Notice) {
	if n.Level == collection.LevelVerbose && !a.verbose {
		return
	}
	if n.Level == collection.LevelError {
		a.reported.Store(true)
	}

	style, ok := noticeStyles[n.Level]
	if !ok {
		style = noticeStyles[collection.LevelVerbose]
	}
	_, _ = style.color.Fprintln(a.errOut, style.prefix+n.Message)
}

// fail marks err as reported when its notice was already printed.
func (a *app) fail(err error) error {
	if err == nil {
		return nil
	}
	if a.reported.Load() {
		return reportedError{err}
	}
	return err
}
