package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/session"
)

// formField is a focus stop of the album form.
type formField int

const (
	focusTitle formField = iota
	focusArtist
	focusCover
	focusReview
	focusRating
	focusCount
)

var inputFields = [...]session.Field{
	focusTitle:  session.FieldTitle,
	focusArtist: session.FieldArtist,
	focusCover:  session.FieldCover,
}

var inputLabels = [...]string{
	focusTitle:  "Title",
	focusArtist: "Artist",
	focusCover:  "Cover",
}

// form edits one draft. Values are mirrored into the session after every
// change so the session always holds what the user sees.
type form struct {
	slot   session.Slot
	inputs [3]textinput.Model
	review textarea.Model
	rating int
	focus  formField
}

func newForm(slot session.Slot, f model.Fields, width int) form {
	width = max(width, 20)

	fm := form{slot: slot, rating: f.Rating}
	values := [...]string{focusTitle: f.Title, focusArtist: f.Artist, focusCover: f.Cover}
	placeholders := [...]string{
		focusTitle:  "Album title",
		focusArtist: "Artist name",
		focusCover:  "https://… or /path/to/cover.jpg (optional)",
	}
	for i := range fm.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 500
		ti.Width = width
		ti.SetValue(values[i])
		fm.inputs[i] = ti
	}

	ta := textarea.New()
	ta.Placeholder = "Your review (optional)"
	ta.ShowLineNumbers = false
	ta.SetWidth(width)
	ta.SetHeight(4)
	ta.SetValue(f.Review)
	fm.review = ta

	fm.setFocus(focusTitle)
	return fm
}

// setFocus moves the cursor to field.
func (f *form) setFocus(field formField) tea.Cmd {
	f.focus = (field + focusCount) % focusCount

	var cmd tea.Cmd
	for i := range f.inputs {
		if formField(i) == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	if f.focus == focusReview {
		cmd = f.review.Focus()
	} else {
		f.review.Blur()
	}
	return cmd
}

// update feeds a key to the focused field. Keys handled by the form itself
// (tab, enter, star keys) never reach the inputs.
func (f form) update(msg tea.KeyMsg) (form, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		if f.focus != focusReview || msg.String() == "tab" {
			return f, f.setFocus(f.focus + 1)
		}
	case "shift+tab", "up":
		if f.focus != focusReview || msg.String() == "shift+tab" {
			return f, f.setFocus(f.focus - 1)
		}
	case "enter":
		if f.focus != focusReview {
			return f, f.setFocus(f.focus + 1)
		}
	}

	if f.focus == focusRating {
		switch s := msg.String(); s {
		case "1", "2", "3", "4", "5":
			f.rating = int(s[0] - '0')
		case "left", "h", "-":
			f.rating = model.ClampRating(f.rating - 1)
		case "right", "l", "+":
			f.rating = model.ClampRating(f.rating + 1)
		}
		return f, nil
	}

	var cmd tea.Cmd
	if f.focus == focusReview {
		f.review, cmd = f.review.Update(msg)
	} else {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return f, cmd
}

// fields returns the values currently shown.
func (f form) fields() model.Fields {
	return model.Fields{
		Title:  f.inputs[focusTitle].Value(),
		Artist: f.inputs[focusArtist].Value(),
		Cover:  f.inputs[focusCover].Value(),
		Review: f.review.Value(),
		Rating: f.rating,
	}
}

// sync mirrors the form into the session draft.
func (f form) sync(sess *session.Session) error {
	for i, field := range inputFields {
		if err := sess.SetField(f.slot, field, f.inputs[i].Value()); err != nil {
			return err
		}
	}
	if err := sess.SetField(f.slot, session.FieldReview, f.review.Value()); err != nil {
		return err
	}
	return sess.SetRating(f.slot, f.rating)
}

func (f form) view(heading string, saving bool) string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(heading))
	b.WriteString("\n\n")

	for i := range f.inputs {
		b.WriteString(f.label(formField(i), inputLabels[i]))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString(f.label(focusReview, "Review"))
	b.WriteString("\n")
	b.WriteString(f.review.View())
	b.WriteString("\n")

	b.WriteString(f.label(focusRating, "Rating"))
	b.WriteString(starStyle.Render(model.Stars(f.rating)))
	if f.focus == focusRating {
		b.WriteString(dimStyle.Render("  1-5 or ←/→"))
	}
	b.WriteString("\n\n")

	if saving {
		b.WriteString(warningStyle.Render("Saving…"))
	} else {
		b.WriteString(dimStyle.Render("ctrl+s: save • tab: next field • esc: cancel"))
	}
	return b.String()
}

func (f form) label(field formField, text string) string {
	text = padRight(text+":", 8)
	if f.focus == field {
		return selectedStyle.Render("› " + text)
	}
	return dimStyle.Render("  " + text)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
