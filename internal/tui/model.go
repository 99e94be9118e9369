// Package tui provides the Bubble Tea terminal interface for the album
// collection.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/album-ratings/internal/collection"
	"github.com/handiism/album-ratings/internal/cover"
	"github.com/handiism/album-ratings/internal/gate"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/review"
	"github.com/handiism/album-ratings/internal/session"
	"github.com/handiism/album-ratings/internal/sorting"
	"github.com/handiism/album-ratings/internal/watch"
)

// maxNotices is how many notices the log keeps.
const maxNotices = 8

// mode is what the keyboard currently drives.
type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// Options wires a Model to the collection and its optional extras.
type Options struct {
	Controller *collection.Controller

	// Notices carries the controller's notices into the UI.
	Notices <-chan collection.Notice

	// Covers renders cover art; nil shows no covers.
	Covers     *cover.Cache
	CoverLimit int

	// Changes signals outside edits of the store; nil disables live refresh.
	Changes <-chan watch.Event

	SortKey sorting.Key
	Verbose bool
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	ctx  context.Context
	ctrl *collection.Controller
	sess *session.Session

	notices <-chan collection.Notice
	changes <-chan watch.Event
	covers  *cover.Cache
	limit   int
	reviews *review.Renderer

	spinner spinner.Model
	mode    mode
	form    form
	sortKey sorting.Key
	cursor  int
	pending int64 // album awaiting delete confirmation
	verbose bool
	logs    []collection.Notice

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	key := opts.SortKey
	if _, ok := sorting.ParseKey(string(key)); !ok {
		key = sorting.Default
	}

	return Model{
		ctx:     ctx,
		ctrl:    opts.Controller,
		sess:    session.New(),
		notices: opts.Notices,
		changes: opts.Changes,
		covers:  opts.Covers,
		limit:   max(opts.CoverLimit, 1),
		reviews: review.New(review.StyleDark),
		spinner: sp,
		sortKey: key,
		verbose: opts.Verbose,
		width:   80,
		height:  24,
	}
}

// Message types
type (
	// loadDoneMsg is sent when a reload finishes.
	loadDoneMsg struct {
		err   error
		quiet bool // triggered by the watcher
	}

	// commitDoneMsg is sent when a draft commit finishes.
	commitDoneMsg struct {
		slot session.Slot
		err  error
	}

	// deleteDoneMsg is sent when a delete finishes.
	deleteDoneMsg struct {
		err error
	}

	// noticeMsg carries one controller notice.
	noticeMsg struct {
		notice collection.Notice
	}

	// coversDoneMsg is sent when a cover prefetch batch finishes.
	coversDoneMsg struct {
		failed []collection.Notice
	}

	// storeChangedMsg is sent when the watcher saw the store change.
	storeChangedMsg struct{}
)

// Init starts the cold load and the background listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.reload(false),
		m.waitForNotice(),
		m.waitForChange(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeMsg:
		m.addNotice(msg.notice)
		return m, m.waitForNotice()

	case loadDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, gate.ErrBusy) && !msg.quiet {
				m.addNotice(busyNotice())
			}
			return m, nil
		}
		m.clampCursor()
		return m, m.prefetchCovers()

	case commitDoneMsg:
		if m.sess.State(msg.slot) == session.Idle {
			m.mode = modeList
			if msg.slot == session.Add {
				m.selectNewest()
			}
		}
		if errors.Is(msg.err, gate.ErrBusy) {
			m.addNotice(busyNotice())
		}
		m.clampCursor()
		return m, m.prefetchCovers()

	case deleteDoneMsg:
		if errors.Is(msg.err, gate.ErrBusy) {
			m.addNotice(busyNotice())
		}
		m.clampCursor()
		return m, nil

	case coversDoneMsg:
		for _, n := range msg.failed {
			m.addNotice(n)
		}
		return m, nil

	case storeChangedMsg:
		// Outside edits only reload an idle collection; they are never
		// queued behind a running operation.
		if m.ctrl.Busy() {
			return m, m.waitForChange()
		}
		return m, tea.Batch(m.reload(true), m.waitForChange())
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.view()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(view)-1 {
			m.cursor++
		}

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		m.cursor = max(len(view)-1, 0)

	case "s":
		selected, ok := m.selected()
		m.sortKey = m.sortKey.Next()
		if ok {
			m.selectID(selected.ID)
		}

	case "r":
		if m.ctrl.Busy() {
			m.addNotice(busyNotice())
			return m, nil
		}
		return m, tea.Batch(m.reload(false), m.spinner.Tick)

	case "a", "n":
		m.sess.BeginAdd()
		draft, _ := m.sess.AddDraft()
		m.form = newForm(session.Add, draft, m.formWidth())
		m.mode = modeAdd
		return m, m.form.setFocus(focusTitle)

	case "e", "enter":
		album, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.sess.BeginEdit(album)
		m.form = newForm(session.Edit, album.Fields(), m.formWidth())
		m.mode = modeEdit
		return m, m.form.setFocus(focusTitle)

	case "d", "x", "delete":
		album, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.ctrl.Busy() {
			m.addNotice(busyNotice())
			return m, nil
		}
		m.pending = album.ID
		m.mode = modeConfirmDelete

	case "v":
		m.verbose = !m.verbose
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slot := m.form.slot

	// The draft is frozen while its commit is in flight.
	if m.ctrl.Busy() {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.sess.Cancel(slot)
		m.mode = modeList
		return m, nil

	case "ctrl+s":
		return m, tea.Batch(m.commit(slot), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	if err := m.form.sync(m.sess); err != nil {
		m.addNotice(collection.Notice{Message: err.Error(), Level: collection.LevelError, Err: err})
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		return m, tea.Batch(m.delete(m.pending), m.spinner.Tick)
	case "n", "N", "esc", "q":
		m.mode = modeList
		m.pending = 0
	}
	return m, nil
}

// view returns the sorted collection.
func (m Model) view() []model.Album {
	return m.ctrl.View(m.sortKey)
}

func (m Model) selected() (model.Album, bool) {
	view := m.view()
	if m.cursor < 0 || m.cursor >= len(view) {
		return model.Album{}, false
	}
	return view[m.cursor], true
}

func (m *Model) selectID(id int64) {
	for i, a := range m.view() {
		if a.ID == id {
			m.cursor = i
			return
		}
	}
}

// selectNewest moves the cursor to the album with the highest id, which is
// the one just added.
func (m *Model) selectNewest() {
	var newest int64
	for _, a := range m.ctrl.Albums() {
		newest = max(newest, a.ID)
	}
	if newest > 0 {
		m.selectID(newest)
	}
}

func (m *Model) clampCursor() {
	n := m.ctrl.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) addNotice(n collection.Notice) {
	if n.Level == collection.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, n)
	if len(m.logs) > maxNotices {
		m.logs = m.logs[len(m.logs)-maxNotices:]
	}
}

func (m Model) formWidth() int {
	return min(max(m.width-16, 20), 72)
}

func busyNotice() collection.Notice {
	return collection.Notice{
		Message: fmt.Sprintf("Busy: %v", gate.ErrBusy),
		Level:   collection.LevelWarning,
		Err:     gate.ErrBusy,
	}
}
