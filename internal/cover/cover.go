package cover

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/handiism/album-ratings/internal/http"
	ioutils "github.com/handiism/album-ratings/internal/io"
)

// Glyph is drawn in place of a cover that is absent or failed to load.
const Glyph = "♪"

// MinWidth is the narrowest cover Cache will render.
const MinWidth = 4

// Cache fetches cover images, scales them and keeps their terminal rendering.
//
// Each reference is fetched at most once; failures are remembered too, so a
// broken URL is not retried on every redraw.
//
// Example usage:
//
//	covers := cover.NewCache(client, 24)
//	covers.Prefetch(ctx, refs, 4, nil)
//	fmt.Println(covers.View(album.Cover))
type Cache struct {
	client *apphttp.Client
	images *ioutils.ImageService
	width  int

	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	view string
	err  error
}

// NewCache creates a Cache rendering covers width cells wide.
func NewCache(client *apphttp.Client, width int) *Cache {
	return &Cache{
		client:  client,
		images:  ioutils.NewImageService(),
		width:   max(width, MinWidth),
		entries: make(map[string]entry),
	}
}

// Width returns the rendered width in cells.
func (c *Cache) Width() int {
	return c.width
}

// Load fetches and renders ref, caching the outcome.
//
// ref is an http(s) URL, a file:// URL or a local path. An empty ref is
// not an error; it renders the fallback.
func (c *Cache) Load(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Fallback(c.width), nil
	}
	if e, ok := c.lookup(ref); ok {
		if e.err != nil {
			return Fallback(c.width), e.err
		}
		return e.view, nil
	}

	view, err := c.render(ctx, ref)
	if ctx.Err() != nil {
		// Cancelled fetches are not remembered.
		return Fallback(c.width), err
	}

	c.mu.Lock()
	c.entries[ref] = entry{view: view, err: err}
	c.mu.Unlock()

	if err != nil {
		return Fallback(c.width), err
	}
	return view, nil
}

// View returns the cached rendering of ref, or the fallback when ref has not
// been loaded or failed.
func (c *Cache) View(ref string) string {
	if e, ok := c.lookup(strings.TrimSpace(ref)); ok && e.err == nil {
		return e.view
	}
	return Fallback(c.width)
}

// Loaded reports whether ref has been fetched, successfully or not.
func (c *Cache) Loaded(ref string) bool {
	_, ok := c.lookup(strings.TrimSpace(ref))
	return ok
}

// Prefetch loads every distinct ref not yet cached, at most limit at a time.
// Individual failures are cached and reported through onError (which may be
// nil); only cancellation stops the batch.
func (c *Cache) Prefetch(ctx context.Context, refs []string, limit int, onError func(ref string, err error)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" || c.Loaded(ref) {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		ref := ref
		g.Go(func() error {
			if _, err := c.Load(ctx, ref); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if onError != nil {
					onError(ref, err)
				}
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *Cache) lookup(ref string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ref]
	return e, ok
}

func (c *Cache) render(ctx context.Context, ref string) (string, error) {
	data, err := c.fetch(ctx, ref)
	if err != nil {
		return "", err
	}

	// Each cell shows two vertical pixels, so a square box of width pixels
	// becomes width cells by width/2 rows.
	img, err := c.images.Thumbnail(ctx, data, c.width, c.width)
	if err != nil {
		return "", fmt.Errorf("decode cover: %w", err)
	}
	return Blocks(img), nil
}

func (c *Cache) fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return c.client.Get(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		return os.ReadFile(strings.TrimPrefix(ref, "file://"))
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("unsupported cover reference %q", ref)
	default:
		return os.ReadFile(ref)
	}
}

// Blocks renders img with upper half blocks: each cell's foreground is the
// top pixel and its background the bottom pixel. An odd last row uses the
// terminal background for its missing bottom pixel.
func Blocks(img image.Image) string {
	b := img.Bounds()
	rows := make([]string, 0, (b.Dy()+1)/2)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var line strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img, x, y))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(img, x, y+1))
			}
			line.WriteString(style.Render("▀"))
		}
		rows = append(rows, line.String())
	}

	return strings.Join(rows, "\n")
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

// Fallback draws a bordered box of the given width with Glyph centred,
// matching the footprint of a rendered square cover.
func Fallback(width int) string {
	width = max(width, MinWidth)
	height := max(width/2, 3)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("240")).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(Glyph)
}
