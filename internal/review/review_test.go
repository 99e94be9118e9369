package review

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := New(StylePlain)

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "   ", nil},
		{"plain", "Grew on me.", []string{"Grew on me."}},
		{"markdown", "**Verdict**\n\n- great songs\n- bad mix", []string{"Verdict", "great songs", "bad mix"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.in, 40)
			if tt.want == nil && got != "" {
				t.Errorf("Render(%q) = %q, want empty", tt.in, got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render(%q) = %q, missing %q", tt.in, got, w)
				}
			}
		})
	}
}

func TestRender_Wraps(t *testing.T) {
	text := strings.Repeat("word ", 40)
	got := New(StylePlain).Render(text, 20)

	if lines := strings.Split(got, "\n"); len(lines) < 5 {
		t.Errorf("Render wrapped into %d line(s), want several:\n%s", len(lines), got)
	}
}

func TestRenderer_CachesPerWidth(t *testing.T) {
	r := New(StylePlain)
	r.Render("a", 30)
	r.Render("b", 30)
	r.Render("c", 3) // clamped to MinWidth

	if len(r.cache) != 2 {
		t.Errorf("cached %d renderers, want 2", len(r.cache))
	}
	if _, ok := r.cache[MinWidth]; !ok {
		t.Errorf("narrow width not clamped to %d", MinWidth)
	}
}
