package render

import (
	"hash/fnv"
	"strconv"

	"github.com/charmbracelet/log"

	"cardwall-cli/internal/frame"
	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/model"
)

// DefaultBatchSize is how many cards a single frame step will create or
// update before yielding to the next frame.
const DefaultBatchSize = 10

type request struct {
	cards     []model.Card
	focusedID string
	activeID  string
}

// Renderer reconciles the rendered card set against successive card lists.
//
// A render pass runs in batches across frame steps so large card sets never
// block a frame. Passes never interleave: a Render call arriving while a
// pass is mid-flight is queued, later calls replace that queued request, and
// only the most recent one runs after the current pass completes. When a
// pass completes, no element for a card id absent from its card list
// remains on the surface.
type Renderer struct {
	surface Surface
	sched   frame.Scheduler
	logger  *log.Logger

	kind layout.Kind
	cfg  layout.Config

	hashes    map[string]uint64
	ids       []string
	index     map[string]int
	positions []layout.Position
	arranged  bool

	batchSize int
	inFlight  bool
	handle    *frame.Handle
	queued    *request
	closed    bool

	// afterRender runs after every completed pass. The navigator hooks in
	// here to clamp and re-apply focus after structural changes.
	afterRender func()
}

func New(surface Surface, sched frame.Scheduler, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		surface:   surface,
		sched:     sched,
		logger:    logger,
		hashes:    map[string]uint64{},
		index:     map[string]int{},
		batchSize: DefaultBatchSize,
	}
}

// SetBatchSize overrides the per-frame batch size; values < 1 are ignored.
func (r *Renderer) SetBatchSize(n int) {
	if n >= 1 {
		r.batchSize = n
	}
}

// SetAfterRender registers the completion hook. Must be set before the
// first Render call.
func (r *Renderer) SetAfterRender(fn func()) { r.afterRender = fn }

// SetLayout switches the arrangement policy and geometry. Cached positions
// are dropped: column and card-size changes always recompute from scratch.
func (r *Renderer) SetLayout(kind layout.Kind, cfg layout.Config) {
	r.kind = kind
	r.cfg = cfg
	r.arranged = false
	r.positions = nil
}

func (r *Renderer) Kind() layout.Kind     { return r.kind }
func (r *Renderer) Config() layout.Config { return r.cfg }

// Columns is the active strategy's column count for the current geometry.
func (r *Renderer) Columns() int {
	return r.cfg.ColumnCount(r.kind, r.cfg.ContainerWidth)
}

// Viewport exposes the surface's current visible window.
func (r *Renderer) Viewport() Viewport { return r.surface.Viewport() }

// ContentExtent is the total main-axis size of the rendered content,
// preferring measured node bounds over arranged positions so auto-height
// content is accounted for once it settles.
func (r *Renderer) ContentExtent() int {
	max := 0
	for i := range r.ids {
		var end int
		if n, ok := r.NodeAt(i); ok {
			b := n.Bounds()
			if r.cfg.Direction == layout.Horizontal {
				end = b.X + b.Width
			} else {
				end = b.Y + b.Height
			}
		} else if p, ok := r.PositionAt(i); ok {
			if r.cfg.Direction == layout.Horizontal {
				end = p.X + p.Width
			} else {
				h := p.Height
				if h < 1 {
					h = 1
				}
				end = p.Y + h
			}
		}
		if end > max {
			max = end
		}
	}
	if max == 0 {
		return 0
	}
	return max + r.cfg.Padding
}

// Count is the number of cards in the current (latest requested) sequence.
func (r *Renderer) Count() int { return len(r.ids) }

// IDAt returns the card id at index i of the rendered sequence.
func (r *Renderer) IDAt(i int) (string, bool) {
	if i < 0 || i >= len(r.ids) {
		return "", false
	}
	return r.ids[i], true
}

// IndexOf returns the sequence index of a card id.
func (r *Renderer) IndexOf(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// NodeAt returns the surface node for the card at index i, if it exists and
// is still attached.
func (r *Renderer) NodeAt(i int) (Node, bool) {
	id, ok := r.IDAt(i)
	if !ok {
		return nil, false
	}
	n, ok := r.surface.Node(id)
	if !ok || !n.Attached() {
		return nil, false
	}
	return n, true
}

// PositionAt returns the arranged position for index i.
func (r *Renderer) PositionAt(i int) (layout.Position, bool) {
	if i < 0 || i >= len(r.positions) {
		return layout.Position{}, false
	}
	return r.positions[i], true
}

// Render requests reconciliation to cards, marking the focused and active
// cards. The work itself runs on subsequent frame steps.
func (r *Renderer) Render(cards []model.Card, focusedID, activeID string) {
	if r.closed {
		return
	}
	req := &request{cards: r.dropIDless(cards), focusedID: focusedID, activeID: activeID}
	if r.inFlight {
		// Coalesce: only the trailing request survives.
		r.queued = req
		return
	}
	r.start(req)
}

func (r *Renderer) start(req *request) {
	r.inFlight = true

	if r.needsArrange(req.cards) {
		r.positions = layout.Arrange(r.kind, req.cards,
			r.cfg.ContainerWidth, r.cfg.ContainerHeight, r.cfg, r.measure)
		r.arranged = true
	}

	r.ids = make([]string, len(req.cards))
	r.index = make(map[string]int, len(req.cards))
	for i, c := range req.cards {
		r.ids[i] = c.ID()
		r.index[c.ID()] = i
	}

	r.scheduleBatch(req, 0)
}

// needsArrange reports whether geometry must be recomputed: any structural
// change to the id set (or an explicit SetLayout) invalidates cached
// positions; otherwise they are reused to avoid redundant geometry work.
func (r *Renderer) needsArrange(cards []model.Card) bool {
	if !r.arranged || len(cards) != len(r.ids) {
		return true
	}
	for _, c := range cards {
		if _, ok := r.index[c.ID()]; !ok {
			return true
		}
	}
	return false
}

func (r *Renderer) scheduleBatch(req *request, from int) {
	r.handle = r.sched.OnNextFrame(func() {
		r.runBatch(req, from)
	})
}

func (r *Renderer) runBatch(req *request, from int) {
	end := from + r.batchSize
	if end > len(req.cards) {
		end = len(req.cards)
	}
	for i := from; i < end; i++ {
		r.renderCard(req, i)
	}
	if end < len(req.cards) {
		r.scheduleBatch(req, end)
		return
	}
	r.finish(req)
}

func (r *Renderer) renderCard(req *request, i int) {
	card := req.cards[i]
	id := card.ID()

	node, ok := r.surface.Node(id)
	if !ok {
		node = r.surface.Create(id)
	}

	h := contentHash(card)
	if r.hashes[id] != h {
		if err := node.SetContent(card); err != nil {
			// One bad card must not abort the batch; fall back to plain text.
			r.logger.Warn("card content render failed", "card", id, "err", err)
			node.SetPlainText(card)
		}
		r.hashes[id] = h
	}

	if i < len(r.positions) {
		node.SetPosition(r.positions[i])
	}
	node.SetFlags(id == req.focusedID, id == req.activeID)
}

func (r *Renderer) finish(req *request) {
	// Purge every previously rendered id absent from this card list. No
	// orphan element survives a completed pass.
	for id := range r.hashes {
		if _, ok := r.index[id]; !ok {
			r.surface.Remove(id)
			delete(r.hashes, id)
		}
	}

	r.inFlight = false
	r.handle = nil

	if r.afterRender != nil {
		r.afterRender()
	}

	if q := r.queued; q != nil {
		r.queued = nil
		r.start(q)
	}
}

// ApplyFlags re-applies focused/active flags to every attached node without
// touching content or positions.
func (r *Renderer) ApplyFlags(focusedID, activeID string) {
	for _, id := range r.ids {
		if n, ok := r.surface.Node(id); ok && n.Attached() {
			n.SetFlags(id == focusedID, id == activeID)
		}
	}
}

// Restack re-applies positions from a fresh arrangement using current
// measured sizes. Used when auto-height content settles after first paint.
func (r *Renderer) Restack(cards []model.Card) {
	if r.closed || r.inFlight {
		return
	}
	cards = r.dropIDless(cards)
	r.positions = layout.Arrange(r.kind, cards,
		r.cfg.ContainerWidth, r.cfg.ContainerHeight, r.cfg, r.measure)
	r.arranged = true
	for i, p := range r.positions {
		if n, ok := r.NodeAt(i); ok {
			n.SetPosition(p)
		}
	}
}

// Close cancels any in-flight pass and drops the queued one. The surface is
// left as-is; the owner tears it down separately.
func (r *Renderer) Close() {
	r.handle.Cancel()
	r.handle = nil
	r.queued = nil
	r.inFlight = false
	r.closed = true
}

// InFlight reports whether a reconciliation pass is currently running.
func (r *Renderer) InFlight() bool { return r.inFlight }

// dropIDless removes cards with no identity: they cannot be keyed on the
// surface, so admitting them would leave navigable indices with no node.
func (r *Renderer) dropIDless(cards []model.Card) []model.Card {
	kept := len(cards)
	for _, c := range cards {
		if c.ID() == "" {
			kept--
		}
	}
	if kept == len(cards) {
		return cards
	}
	out := make([]model.Card, 0, kept)
	for _, c := range cards {
		if c.ID() == "" {
			r.logger.Warn("dropping card without id")
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Renderer) measure(id string) int {
	n, ok := r.surface.Node(id)
	if !ok || !n.Attached() {
		return 0
	}
	b := n.Bounds()
	if r.cfg.Direction == layout.Horizontal {
		return b.Width
	}
	return b.Height
}

// contentHash summarizes a card's visible fields. Matching hashes mean a
// re-render must not mutate the node's content, only its position/flags.
func contentHash(c model.Card) uint64 {
	const (
		titlePrefix = 64
		bodyPrefix  = 256
	)
	h := fnv.New64a()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	write(c.ID())
	write(prefix(c.Title, titlePrefix))
	write(prefix(c.Body, bodyPrefix))
	write(strconv.Itoa(len(c.Tags)))
	for _, t := range c.Tags {
		write(t)
	}
	return h.Sum64()
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
