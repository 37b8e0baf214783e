// Package rendertest provides an in-memory Surface implementation for
// renderer, navigator and scroller tests. Nodes record every mutation so
// tests can assert on exactly what the core touched.
package rendertest

import (
	"errors"

	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/model"
	"cardwall-cli/internal/render"
)

type Node struct {
	NodeID string

	Pos     layout.Position
	Content model.Card
	Focused bool
	Active  bool

	// MeasuredHeight/MeasuredWidth override the reported bounds, simulating
	// content that lays out to a different size than the arranged one
	// (auto-height cards). Zero means "use the arranged size".
	MeasuredHeight int
	MeasuredWidth  int

	// FailContent makes SetContent return an error, simulating a
	// content-renderer failure.
	FailContent bool

	ContentSets   int
	PositionSets  int
	PlainFallback bool

	attached bool
	surface  *Surface
}

func (n *Node) ID() string { return n.NodeID }

func (n *Node) SetPosition(p layout.Position) {
	n.Pos = p
	n.PositionSets++
}

func (n *Node) SetContent(card model.Card) error {
	if n.FailContent {
		return errors.New("content render failed")
	}
	n.Content = card
	n.ContentSets++
	n.PlainFallback = false
	return nil
}

func (n *Node) SetPlainText(card model.Card) {
	n.Content = card
	n.PlainFallback = true
}

func (n *Node) SetFlags(focused, active bool) {
	n.Focused = focused
	n.Active = active
}

func (n *Node) Bounds() render.Rect {
	w := n.MeasuredWidth
	if w <= 0 {
		w = n.Pos.Width
	}
	h := n.MeasuredHeight
	if h <= 0 {
		h = n.Pos.Height
	}
	if h <= 0 { // HeightAuto and unmeasured
		h = 1
	}
	return render.Rect{X: n.Pos.X, Y: n.Pos.Y, Width: w, Height: h}
}

func (n *Node) Attached() bool { return n.attached }

// Surface implements render.Surface in memory.
type Surface struct {
	Nodes   map[string]*Node
	Created []string
	Removed []string

	VP render.Viewport

	// FailContentFor marks card ids whose nodes fail SetContent.
	FailContentFor map[string]bool
}

func NewSurface(width, height int) *Surface {
	return &Surface{
		Nodes:          map[string]*Node{},
		VP:             render.Viewport{Width: width, Height: height},
		FailContentFor: map[string]bool{},
	}
}

func (s *Surface) Create(id string) render.Node {
	n := &Node{
		NodeID:      id,
		attached:    true,
		surface:     s,
		FailContent: s.FailContentFor[id],
	}
	s.Nodes[id] = n
	s.Created = append(s.Created, id)
	return n
}

func (s *Surface) Node(id string) (render.Node, bool) {
	n, ok := s.Nodes[id]
	if !ok {
		return nil, false
	}
	return n, true
}

func (s *Surface) Remove(id string) {
	if n, ok := s.Nodes[id]; ok {
		n.attached = false
		delete(s.Nodes, id)
	}
	s.Removed = append(s.Removed, id)
}

func (s *Surface) Viewport() render.Viewport { return s.VP }

func (s *Surface) SetOffset(offset int) { s.VP.Offset = offset }

// Get returns the concrete fake node for assertions.
func (s *Surface) Get(id string) *Node { return s.Nodes[id] }
