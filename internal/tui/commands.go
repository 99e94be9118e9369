package tui

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/album-ratings/internal/collection"
	"github.com/handiism/album-ratings/internal/session"
)

// reload fetches the collection in the background.
func (m Model) reload(quiet bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadDoneMsg{err: ctrl.Reload(ctx), quiet: quiet}
	}
}

// commit submits the draft in slot.
func (m Model) commit(slot session.Slot) tea.Cmd {
	ctx, ctrl, sess := m.ctx, m.ctrl, m.sess
	return func() tea.Msg {
		return commitDoneMsg{slot: slot, err: sess.Commit(ctx, slot, ctrl)}
	}
}

// delete removes the album with id. The user already confirmed in the
// modal, so the controller's confirmation is pre-answered.
func (m Model) delete(id int64) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Delete(ctx, id, collection.Always)
		return deleteDoneMsg{err: err}
	}
}

// waitForNotice blocks until the controller emits a notice.
func (m Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch, done := m.notices, m.ctx.Done()
	return func() tea.Msg {
		select {
		case n, ok := <-ch:
			if !ok {
				return nil
			}
			return noticeMsg{notice: n}
		case <-done:
			return nil
		}
	}
}

// waitForChange blocks until the watcher reports a change.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch, done := m.changes, m.ctx.Done()
	return func() tea.Msg {
		select {
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return storeChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// prefetchCovers loads the covers of every album not yet cached.
func (m Model) prefetchCovers() tea.Cmd {
	if m.covers == nil {
		return nil
	}

	var refs []string
	for _, a := range m.ctrl.Albums() {
		if a.HasCover() && !m.covers.Loaded(a.Cover) {
			refs = append(refs, a.Cover)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	ctx, covers, limit := m.ctx, m.covers, m.limit
	return func() tea.Msg {
		var (
			mu     sync.Mutex
			failed []collection.Notice
		)
		_ = covers.Prefetch(ctx, refs, limit, func(ref string, err error) {
			mu.Lock()
			failed = append(failed, coverFailed(ref, err))
			mu.Unlock()
		})
		return coversDoneMsg{failed: failed}
	}
}

// NoticeSink returns a notice callback that forwards into ch without
// blocking; notices are dropped when the UI falls behind.
func NoticeSink(ch chan<- collection.Notice) func(collection.Notice) {
	return func(n collection.Notice) {
		select {
		case ch <- n:
		default:
		}
	}
}

// coverFailed is reported for covers that fell back to the glyph.
func coverFailed(ref string, err error) collection.Notice {
	return collection.Notice{
		Message: fmt.Sprintf("Cover %s: %v", ref, err),
		Level:   collection.LevelVerbose,
		Err:     err,
	}
}
