// Package nav owns the panel's single logical focus: which rendered card
// keyboard navigation is on, how key-driven moves translate between the 1-D
// card sequence and the active layout's 2-D grid, and when the focused card
// gets re-centered in view.
package nav

import (
	"time"

	"github.com/charmbracelet/log"

	"cardwall-cli/internal/frame"
	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/render"
)

// focusDebounce batches rapid focus-style updates from key auto-repeat so
// styling is applied once per burst instead of per keypress.
const focusDebounce = 30 * time.Millisecond

// Centerer receives scroll-to-center requests for a card index.
type Centerer interface {
	CenterIndex(index int, animate bool)
}

// Navigator is a state machine over the focused index. The index points
// into the currently rendered card sequence, not at a stable card id, so it
// is re-clamped whenever the rendered set changes structurally (the
// renderer's after-render hook calls Revalidate).
type Navigator struct {
	renderer *render.Renderer
	sched    frame.Scheduler
	center   Centerer
	open     func(cardID string)
	logger   *log.Logger

	focused      bool
	focusedIndex int

	activeID string

	styleHandle *frame.Handle
}

func New(renderer *render.Renderer, sched frame.Scheduler, center Centerer, logger *log.Logger) *Navigator {
	if logger == nil {
		logger = log.Default()
	}
	return &Navigator{
		renderer:     renderer,
		sched:        sched,
		center:       center,
		logger:       logger,
		focusedIndex: -1,
	}
}

// SetOpenFunc registers the collaborator that opens the document behind a
// card.
func (n *Navigator) SetOpenFunc(fn func(cardID string)) { n.open = fn }

// SetActiveCard records the card corresponding to the currently open
// document; Focus prefers it as the landing target.
func (n *Navigator) SetActiveCard(id string) { n.activeID = id }

// ActiveID returns the card recorded by SetActiveCard, or "".
func (n *Navigator) ActiveID() string { return n.activeID }

// Focused reports whether the panel holds keyboard focus.
func (n *Navigator) Focused() bool { return n.focused }

// FocusedIndex returns the focused sequence index, or -1 when unfocused.
func (n *Navigator) FocusedIndex() int {
	if !n.focused {
		return -1
	}
	return n.focusedIndex
}

// FocusedID returns the focused card id, or "".
func (n *Navigator) FocusedID() string {
	if !n.focused {
		return ""
	}
	id, _ := n.renderer.IDAt(n.focusedIndex)
	return id
}

// Focus acquires focus: on the active card if rendered, else the first card
// fully visible in the viewport, else index 0. With no cards it stays
// unfocused.
func (n *Navigator) Focus() {
	total := n.renderer.Count()
	if total == 0 {
		return
	}

	target := 0
	if n.activeID != "" {
		if i, ok := n.renderer.IndexOf(n.activeID); ok {
			target = i
		} else if i, ok := n.firstFullyVisible(); ok {
			target = i
		}
	} else if i, ok := n.firstFullyVisible(); ok {
		target = i
	}

	n.focused = true
	n.setIndex(target, false)
}

// Blur releases focus and clears the index.
func (n *Navigator) Blur() {
	n.focused = false
	n.focusedIndex = -1
	n.styleHandle.Cancel()
	n.applyStyleNow()
}

// Move applies a directional delta in grid terms. For grid and masonry
// layouts the 1-D index is mapped through (row, col) with column wrap;
// results outside [0, total) are a no-op, so focus never wraps past the
// ends. List layouts collapse to plain index arithmetic.
func (n *Navigator) Move(rowDelta, colDelta int) {
	if !n.focused {
		return
	}
	total := n.renderer.Count()
	if total == 0 {
		return
	}

	var next int
	switch n.renderer.Kind() {
	case layout.KindGrid, layout.KindMasonry:
		columns := n.renderer.Columns()
		if columns < 1 {
			columns = 1
		}
		row := n.focusedIndex / columns
		col := n.focusedIndex % columns

		col += colDelta
		for col < 0 {
			col += columns
			row--
		}
		for col >= columns {
			col -= columns
			row++
		}
		row += rowDelta
		if row < 0 {
			return
		}
		next = row*columns + col
	default:
		next = n.focusedIndex + rowDelta + colDelta
	}

	if next < 0 || next >= total {
		return
	}
	n.setIndex(next, true)
}

// PageMove jumps by roughly one viewport of cards: the measured page size
// when card extent is known, the configured cards-per-view otherwise.
// Moving past either end snaps to the first/last card.
func (n *Navigator) PageMove(dir int) {
	if !n.focused {
		return
	}
	total := n.renderer.Count()
	if total == 0 {
		return
	}

	next := n.focusedIndex + dir*n.pageSize()
	if next < 0 {
		next = 0
	}
	if next > total-1 {
		next = total - 1
	}
	if next == n.focusedIndex {
		return
	}
	n.setIndex(next, true)
}

// Home focuses the first card.
func (n *Navigator) Home() {
	if !n.focused || n.renderer.Count() == 0 {
		return
	}
	n.setIndex(0, true)
}

// End focuses the last card.
func (n *Navigator) End() {
	total := n.renderer.Count()
	if !n.focused || total == 0 {
		return
	}
	n.setIndex(total-1, true)
}

// Open asks the host to open the document behind the focused card.
func (n *Navigator) Open() {
	if !n.focused || n.open == nil {
		return
	}
	if id, ok := n.renderer.IDAt(n.focusedIndex); ok {
		n.open(id)
	}
}

// Revalidate re-clamps the focused index against the current card count and
// re-applies the focus highlight. The renderer calls this after every
// reconciliation pass so data refreshes do not drop the focus ring.
func (n *Navigator) Revalidate() {
	if !n.focused {
		return
	}
	total := n.renderer.Count()
	if total == 0 {
		n.focused = false
		n.focusedIndex = -1
		return
	}
	if n.focusedIndex > total-1 {
		n.focusedIndex = total - 1
	}
	if n.focusedIndex < 0 {
		n.focusedIndex = 0
	}
	n.applyStyleNow()
}

// Close cancels pending debounced work.
func (n *Navigator) Close() {
	n.styleHandle.Cancel()
}

func (n *Navigator) setIndex(i int, animate bool) {
	n.focusedIndex = i

	// Debounce the visual update; rapid repeats collapse to one styling
	// pass. The scroll request goes out immediately (the scroller cancels
	// its own competing animations).
	n.styleHandle.Cancel()
	n.styleHandle = n.sched.After(focusDebounce, n.applyStyleNow)

	if n.center != nil {
		n.center.CenterIndex(i, animate)
	}
}

func (n *Navigator) applyStyleNow() {
	n.renderer.ApplyFlags(n.FocusedID(), n.activeID)
}

// pageSize estimates how many cards fit in one viewport along the scroll
// axis, in whole rows of the active layout.
func (n *Navigator) pageSize() int {
	cfg := n.renderer.Config()
	columns := n.renderer.Columns()
	if columns < 1 {
		columns = 1
	}

	if extent := n.cardExtent(); extent > 0 {
		viewport := cfg.ContainerHeight
		if cfg.Direction == layout.Horizontal {
			viewport = cfg.ContainerWidth
		}
		rows := viewport / (extent + cfg.Gap)
		if rows < 1 {
			rows = 1
		}
		return rows * columns
	}

	if cfg.CardsPerView > 0 {
		return cfg.CardsPerView
	}
	return columns
}

// cardExtent measures the focused card's main-axis size (falling back to
// the first card), or 0 when nothing is measurable yet.
func (n *Navigator) cardExtent() int {
	cfg := n.renderer.Config()
	for _, i := range []int{n.focusedIndex, 0} {
		if node, ok := n.renderer.NodeAt(i); ok {
			b := node.Bounds()
			if cfg.Direction == layout.Horizontal && b.Width > 0 {
				return b.Width
			}
			if cfg.Direction == layout.Vertical && b.Height > 0 {
				return b.Height
			}
		}
	}
	return 0
}

// firstFullyVisible finds the lowest index whose card lies entirely inside
// the viewport along the scroll axis.
func (n *Navigator) firstFullyVisible() (int, bool) {
	vp := n.renderer.Viewport()
	cfg := n.renderer.Config()
	total := n.renderer.Count()
	for i := 0; i < total; i++ {
		node, ok := n.renderer.NodeAt(i)
		if !ok {
			continue
		}
		b := node.Bounds()
		if cfg.Direction == layout.Horizontal {
			if b.X >= vp.Offset && b.X+b.Width <= vp.Offset+vp.Width {
				return i, true
			}
		} else {
			if b.Y >= vp.Offset && b.Y+b.Height <= vp.Offset+vp.Height {
				return i, true
			}
		}
	}
	return 0, false
}
