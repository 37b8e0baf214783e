package tui

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/model"
	"cardwall-cli/internal/render"
)

// CardSurface is the terminal-cell implementation of render.Surface: a
// virtual canvas of card boxes, of which a viewport-sized window is
// composited into the frame shown on screen.
type CardSurface struct {
	nodes map[string]*cardNode

	width, height int
	padding       int
	offset        int
	horizontal    bool

	cardWidth  int
	cardHeight int // layout.HeightAuto lets content drive the box height
}

func NewCardSurface() *CardSurface {
	return &CardSurface{nodes: map[string]*cardNode{}, cardWidth: 30, cardHeight: layout.HeightAuto}
}

// Configure sets the card box geometry and scroll axis. Existing nodes are
// rebuilt the next time their content or position changes.
func (s *CardSurface) Configure(cardWidth, cardHeight int, horizontal bool) {
	if cardWidth < 8 {
		cardWidth = 8
	}
	changed := cardWidth != s.cardWidth || cardHeight != s.cardHeight
	s.cardWidth = cardWidth
	s.cardHeight = cardHeight
	s.horizontal = horizontal
	if changed {
		for _, n := range s.nodes {
			n.rebuild()
		}
	}
}

// SetSize sets the viewport dimensions in cells.
func (s *CardSurface) SetSize(width, height, padding int) {
	s.width = max(width, 0)
	s.height = max(height, 0)
	s.padding = max(padding, 0)
}

// CardSize reports the configured card box geometry. Height is
// layout.HeightAuto when content drives it.
func (s *CardSurface) CardSize() (width, height int) {
	return s.cardWidth, s.cardHeight
}

func (s *CardSurface) Create(id string) render.Node {
	if n, ok := s.nodes[id]; ok {
		return n
	}
	n := &cardNode{surface: s, id: id, attached: true}
	s.nodes[id] = n
	return n
}

func (s *CardSurface) Node(id string) (render.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func (s *CardSurface) Remove(id string) {
	if n, ok := s.nodes[id]; ok {
		n.attached = false
		delete(s.nodes, id)
	}
}

func (s *CardSurface) Viewport() render.Viewport {
	return render.Viewport{Offset: s.offset, Width: s.width, Height: s.height, Padding: s.padding}
}

func (s *CardSurface) SetOffset(offset int) {
	s.offset = max(offset, 0)
}

type frameSegment struct {
	x     int
	width int
	text  string
}

// Frame composites every visible card line into a viewport-sized string.
// Cards never overlap, so each canvas row is a sorted run of segments with
// spaces in between.
func (s *CardSurface) Frame() string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}

	rows := make([][]frameSegment, s.height)
	for _, n := range s.nodes {
		for li, ln := range n.rendered {
			x, y := n.pos.X, n.pos.Y+li
			if s.horizontal {
				x -= s.offset
			} else {
				y -= s.offset
			}
			if y < 0 || y >= s.height {
				continue
			}
			w := n.boxWidth
			if x < 0 {
				ln = xansi.Cut(ln, -x, w)
				w += x
				x = 0
			}
			if x+w > s.width {
				w = s.width - x
				ln = xansi.Cut(ln, 0, w)
			}
			if w <= 0 || x >= s.width {
				continue
			}
			rows[y] = append(rows[y], frameSegment{x: x, width: w, text: ln})
		}
	}

	var b strings.Builder
	for y, segs := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		sort.Slice(segs, func(i, j int) bool { return segs[i].x < segs[j].x })
		col := 0
		for _, seg := range segs {
			if seg.x < col {
				continue
			}
			if seg.x > col {
				b.WriteString(strings.Repeat(" ", seg.x-col))
			}
			b.WriteString(seg.text)
			col = seg.x + seg.width
		}
	}
	return b.String()
}

var _ render.Surface = (*CardSurface)(nil)

// cardNode is one retained card box. It keeps the raw card fields so the
// box can be restyled in place when focus or geometry changes.
type cardNode struct {
	surface *CardSurface
	id      string

	pos      layout.Position
	card     model.Card
	hasCard  bool
	plain    bool
	focused  bool
	active   bool
	attached bool

	boxWidth int
	rendered []string
}

func (n *cardNode) ID() string { return n.id }

func (n *cardNode) SetPosition(p layout.Position) {
	if !n.attached {
		return
	}
	widthChanged := p.Width != n.pos.Width || p.Height != n.pos.Height
	n.pos = p
	if widthChanged {
		n.rebuild()
	}
}

func (n *cardNode) SetContent(card model.Card) error {
	if !n.attached {
		return nil
	}
	if !utf8.ValidString(card.Title) || !utf8.ValidString(card.Body) {
		return fmt.Errorf("card %s: content is not valid UTF-8", card.Path)
	}
	n.card = card
	n.hasCard = true
	n.plain = false
	n.rebuild()
	return nil
}

func (n *cardNode) SetPlainText(card model.Card) {
	if !n.attached {
		return
	}
	n.card = card
	n.hasCard = true
	n.plain = true
	n.rebuild()
}

func (n *cardNode) SetFlags(focused, active bool) {
	if !n.attached || (focused == n.focused && active == n.active) {
		return
	}
	n.focused = focused
	n.active = active
	n.rebuild()
}

func (n *cardNode) Bounds() render.Rect {
	return render.Rect{X: n.pos.X, Y: n.pos.Y, Width: n.boxWidth, Height: len(n.rendered)}
}

func (n *cardNode) Attached() bool { return n.attached }

// rebuild regenerates the styled box lines from the node's card fields and
// current geometry.
func (n *cardNode) rebuild() {
	if !n.hasCard {
		return
	}

	n.boxWidth = n.surface.cardWidth
	if n.pos.Width > 0 {
		n.boxWidth = n.pos.Width
	}
	// Border plus one cell of padding on each side.
	innerW := n.boxWidth - 4
	if innerW < 4 {
		innerW = 4
	}

	var content string
	if n.plain {
		content = n.plainContent(innerW)
	} else {
		content = n.styledContent(innerW)
	}

	boxHeight := n.surface.cardHeight
	if n.pos.Height > 0 && n.surface.cardHeight != layout.HeightAuto {
		boxHeight = n.pos.Height
	}
	if boxHeight != layout.HeightAuto {
		content = normalizePane(content, innerW, boxHeight-2)
	} else {
		content = normalizePane(content, innerW, 0)
	}

	border := colorCardBorder
	switch {
	case n.focused:
		border = colorFocusedBorder
	case n.active:
		border = colorActiveBorder
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(content)

	n.rendered = strings.Split(box, "\n")
}

func (n *cardNode) styledContent(innerW int) string {
	var b strings.Builder
	b.WriteString(styleCardTitle().Render(truncateLine(n.card.Title, innerW)))
	if len(n.card.Tags) > 0 {
		b.WriteByte('\n')
		b.WriteString(styleCardMeta().Render(truncateLine("#"+strings.Join(n.card.Tags, " #"), innerW)))
	}
	if body := cardPreviewBody(n.card); body != "" {
		b.WriteByte('\n')
		b.WriteString(renderMarkdown(body, innerW))
	}
	return b.String()
}

// plainContent is the unstyled fallback used when styled rendering failed:
// raw title and body with any escape sequences stripped.
func (n *cardNode) plainContent(innerW int) string {
	var b strings.Builder
	b.WriteString(truncateLine(stripANSIEscapes(n.card.Title), innerW))
	if body := stripANSIEscapes(cardPreviewBody(n.card)); body != "" {
		b.WriteByte('\n')
		b.WriteString(body)
	}
	return b.String()
}

// cardPreviewBody drops the leading title heading from the body so cards
// don't show their title twice.
func cardPreviewBody(c model.Card) string {
	body := strings.TrimSpace(c.Body)
	if first, rest, ok := strings.Cut(body, "\n"); ok {
		if strings.HasPrefix(strings.TrimSpace(first), "#") {
			return strings.TrimSpace(rest)
		}
	} else if strings.HasPrefix(body, "#") {
		return ""
	}
	return body
}

func truncateLine(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return xansi.Cut(s, 0, width)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

var _ render.Node = (*cardNode)(nil)
