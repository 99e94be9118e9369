// Package review renders album reviews for the terminal.
//
// Reviews are free text. Markdown in them (emphasis, lists, quotes) is
// rendered with glamour; text that fails to render is shown as written.
package review

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MinWidth is the narrowest wrap width a Renderer uses.
const MinWidth = 10

// Glamour standard styles.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty" // no escape sequences
)

// Renderer renders reviews in one glamour style. Renderers are cached per
// wrap width; a Renderer is safe for concurrent use.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// New returns a Renderer for the named glamour standard style.
func New(style string) *Renderer {
	return &Renderer{
		style: style,
		cache: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders text wrapped to width. Empty text renders as "".
func (r *Renderer) Render(text string, width int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	tr, err := r.renderer(max(width, MinWidth))
	if err != nil {
		return text
	}
	out, err := tr.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}

	// A fixed style avoids the terminal background query of WithAutoStyle,
	// which can block inside a running Bubble Tea program.
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	return tr, nil
}
