package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/album-ratings/internal/collection"
	"github.com/handiism/album-ratings/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ Album Ratings"))
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n\n")

	switch {
	case !m.ctrl.Loaded() && m.ctrl.Loading():
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading albums…"))
		b.WriteString("\n")
	case !m.ctrl.Loaded():
		b.WriteString(errorStyle.Render("Could not load the collection. Press r to retry."))
		b.WriteString("\n")
	case m.mode == modeAdd:
		box := modalStyle.Render(m.form.view("New album", m.ctrl.Saving()))
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box))
		b.WriteString("\n")
	case m.mode == modeConfirmDelete:
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.viewConfirm()))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewList())
	}

	// Notices
	if logs := m.renderLogs(); logs != "" {
		b.WriteString("\n")
		b.WriteString(logs)
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewStatus() string {
	n := m.ctrl.Len()
	noun := "albums"
	if n == 1 {
		noun = "album"
	}
	status := dimStyle.Render(fmt.Sprintf("%d %s • sorted by %s", n, noun, m.sortKey.Label()))

	if m.ctrl.Saving() {
		status += "  " + m.spinner.View() + warningStyle.Render("Saving…")
	}
	return status
}

func (m Model) viewList() string {
	view := m.view()
	if len(view) == 0 {
		return infoStyle.Render("No albums yet. Press a to add one.") + "\n"
	}

	editing, isEditing := m.sess.EditDraft()
	isEditing = isEditing && m.mode == modeEdit

	rowWidth := max(m.width-4, 20)
	if m.covers != nil && !isEditing {
		rowWidth = max(rowWidth-m.covers.Width()-2, 20)
	}

	start, end := visibleRange(len(view), m.cursor, m.listHeight())

	var rows strings.Builder
	if start > 0 {
		rows.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
		rows.WriteString("\n")
	}
	for i := start; i < end; i++ {
		a := view[i]
		if isEditing && a.ID == editing.ID {
			heading := "Editing " + a.String()
			rows.WriteString(inPlaceStyle.Render(m.form.view(heading, m.ctrl.Saving())))
			rows.WriteString("\n")
			continue
		}
		rows.WriteString(renderRow(a, i == m.cursor, rowWidth))
		rows.WriteString("\n")
	}
	if end < len(view) {
		rows.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more", len(view)-end)))
		rows.WriteString("\n")
	}

	if m.covers == nil || isEditing {
		return rows.String()
	}

	panel := m.viewSelected()
	return lipgloss.JoinHorizontal(lipgloss.Top, rows.String(), "  ", panel) + "\n"
}

// viewSelected shows the cover and review of the album under the cursor.
func (m Model) viewSelected() string {
	a, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.covers.View(a.Cover))
	if text := m.reviews.Render(a.Review, m.covers.Width()); text != "" {
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String()
}

func (m Model) viewConfirm() string {
	name := "this album"
	if a, ok := m.ctrl.Album(m.pending); ok {
		name = a.String()
	}
	return dangerStyle.Render(fmt.Sprintf("Delete %s?\n\n%s",
		selectedStyle.Render(name),
		dimStyle.Render("y: delete • n: keep")))
}

func renderRow(a model.Album, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = "› "
	}
	text := truncate(a.String(), max(width-len(prefix)-model.MaxRating-1, 8))

	row := prefix + starStyle.Render(model.Stars(a.Rating)) + " "
	if selected {
		return row + selectedStyle.Render(text)
	}
	return row + text
}

func (m Model) listHeight() int {
	reserved := 8 + len(m.logs)
	return max(m.height-reserved, 3)
}

// visibleRange returns the window [start, end) of n rows that keeps cursor
// visible with at most size rows.
func visibleRange(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := max(cursor-size/2, 0)
	end := start + size
	if end > n {
		end = n
		start = n - size
	}
	return start, end
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case collection.LevelError:
			style = errorStyle
			prefix = "✗"
		case collection.LevelWarning:
			style = warningStyle
			prefix = "!"
		case collection.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case collection.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.mode {
	case modeAdd, modeEdit:
		return "ctrl+s: save • esc: cancel • ctrl+c: quit"
	case modeConfirmDelete:
		return "y: delete • n: cancel"
	}
	verbose := "v: verbose"
	if m.verbose {
		verbose = "v: quiet"
	}
	return "↑/↓: move • a: add • e: edit • d: delete • s: sort • r: refresh • " + verbose + " • q: quit"
}
