// Package render owns the panel's retained card elements: it reconciles a
// new card list against the previously rendered set and applies the minimal
// mutations (create, reposition, update content, remove) needed to match.
//
// The actual display primitive sits behind the Surface capability interface
// so the reconciliation and layout logic never touch the terminal directly;
// the TUI supplies a cell-based implementation and tests supply a fake.
package render

import (
	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/model"
)

// Rect is a rectangle in canvas coordinates (cells).
type Rect struct {
	X, Y          int
	Width, Height int
}

// Viewport describes the visible window over the panel's virtual canvas.
// Offset is the current scroll position along the configured scroll axis.
type Viewport struct {
	Offset int
	Width  int
	Height int
	// Padding is applied to both edges of the scroll axis when computing
	// the visible-area center for scroll alignment.
	Padding int
}

// Node is one retained card element owned by a Surface. Implementations
// report their true bounds, which for auto-height cards may keep changing
// until content has finished laying out.
type Node interface {
	ID() string

	SetPosition(p layout.Position)
	// SetContent fills the node from the card's visible fields. It may
	// fail (malformed content, content-renderer error); the node must stay
	// usable afterwards.
	SetContent(card model.Card) error
	// SetPlainText fills the node with an unstyled plain-text fallback.
	// It must not fail.
	SetPlainText(card model.Card)
	// SetFlags applies the focused/active boolean state. Idempotent; no
	// effect beyond the visual flags.
	SetFlags(focused, active bool)

	// Bounds is the node's current position plus its measured size.
	Bounds() Rect
	// Attached reports whether the node is still part of the surface.
	// Operations against detached nodes are silently skipped.
	Attached() bool
}

// Surface is the retained-mode display primitive the renderer mutates.
type Surface interface {
	Create(id string) Node
	Node(id string) (Node, bool)
	Remove(id string)
	Viewport() Viewport
	SetOffset(offset int)
}
