// Package scroll is the panel's imperative scrolling primitive: centering a
// card in the viewport (smoothly or instantly), directional and page
// scrolling, and a convergence loop that keeps re-centering against content
// whose size is still settling.
package scroll

import (
	"time"

	"github.com/charmbracelet/log"

	"cardwall-cli/internal/frame"
	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/render"
)

const (
	// animDuration is the smooth-scroll duration.
	animDuration = 300 * time.Millisecond

	// Convergence: the computed centering offset must hold within epsilon
	// for stableFrames consecutive frames, bounded by convergeBudget of
	// wall-clock (scheduler) time.
	convergeEpsilon = 1
	stableFrames    = 3
	convergeBudget  = 2 * time.Second
)

// Scroller centers cards and moves the viewport. All mutation happens on
// frame steps; starting any new scroll request cancels the in-flight
// animation and convergence loop, so rapid key repeats never produce
// competing trajectories.
type Scroller struct {
	renderer *render.Renderer
	surface  render.Surface
	sched    frame.Scheduler
	logger   *log.Logger

	animHandle *frame.Handle
	convHandle *frame.Handle
}

func New(renderer *render.Renderer, surface render.Surface, sched frame.Scheduler, logger *log.Logger) *Scroller {
	if logger == nil {
		logger = log.Default()
	}
	return &Scroller{
		renderer: renderer,
		surface:  surface,
		sched:    sched,
		logger:   logger,
	}
}

// CenterIndex centers the card at the given sequence index. It satisfies
// the navigator's Centerer contract. When the card's size can still change
// after first paint (height alignment off) a convergence loop re-samples
// the target until it stabilizes.
func (s *Scroller) CenterIndex(index int, animate bool) {
	s.stopConvergence()

	node, ok := s.renderer.NodeAt(index)
	if ok {
		s.retarget(node, animate)
	}
	// With aligned heights and an attached node a single pass is exact.
	if !ok || !s.renderer.Config().AlignCardHeight {
		s.startConvergence(index, animate)
	}
}

// CenterActive centers the card for the given id (typically the active
// document), if rendered; otherwise it is a no-op.
func (s *Scroller) CenterActive(id string, animate bool) {
	if i, ok := s.renderer.IndexOf(id); ok {
		s.CenterIndex(i, animate)
	}
}

// ScrollUp moves the view up by count cards (vertical panels only).
func (s *Scroller) ScrollUp(count int) { s.scrollCards(layout.Vertical, -count) }

// ScrollDown moves the view down by count cards (vertical panels only).
func (s *Scroller) ScrollDown(count int) { s.scrollCards(layout.Vertical, count) }

// ScrollLeft moves the view left by count cards (horizontal panels only).
func (s *Scroller) ScrollLeft(count int) { s.scrollCards(layout.Horizontal, -count) }

// ScrollRight moves the view right by count cards (horizontal panels only).
func (s *Scroller) ScrollRight(count int) { s.scrollCards(layout.Horizontal, count) }

// PageScroll moves the view by dir whole viewports along the scroll axis.
func (s *Scroller) PageScroll(dir int) {
	vp := s.surface.Viewport()
	cfg := s.renderer.Config()
	extent := vp.Height
	if cfg.Direction == layout.Horizontal {
		extent = vp.Width
	}
	s.scrollTo(vp.Offset+dir*extent, cfg.AnimateScroll)
}

// Offset returns the current scroll offset.
func (s *Scroller) Offset() int { return s.surface.Viewport().Offset }

// Animating reports whether a smooth scroll is in flight.
func (s *Scroller) Animating() bool { return s.animHandle.Active() }

// Close cancels any in-flight animation and convergence work.
func (s *Scroller) Close() {
	s.animHandle.Cancel()
	s.animHandle = nil
	s.stopConvergence()
}

func (s *Scroller) scrollCards(axis layout.Direction, count int) {
	cfg := s.renderer.Config()
	if cfg.Direction != axis || count == 0 {
		return
	}

	step := cfg.CardHeight
	if axis == layout.Horizontal {
		step = cfg.CardWidth
	}
	if step <= 0 {
		step = 1
	}
	vp := s.surface.Viewport()
	s.scrollTo(vp.Offset+count*(step+cfg.Gap), cfg.AnimateScroll)
}

// retarget computes the centering offset for node and scrolls to it.
func (s *Scroller) retarget(node render.Node, animate bool) {
	s.scrollTo(s.centerTarget(node), animate && s.renderer.Config().AnimateScroll)
}

// centerTarget is the scroll offset that aligns node's midpoint with the
// padded viewport midpoint, clamped to the scrollable range.
func (s *Scroller) centerTarget(node render.Node) int {
	vp := s.surface.Viewport()
	cfg := s.renderer.Config()
	b := node.Bounds()

	var elemStart, elemSize, vpExtent int
	if cfg.Direction == layout.Horizontal {
		elemStart, elemSize, vpExtent = b.X, b.Width, vp.Width
	} else {
		elemStart, elemSize, vpExtent = b.Y, b.Height, vp.Height
	}

	inner := vpExtent - 2*vp.Padding
	if inner < 1 {
		inner = 1
	}
	target := elemStart + elemSize/2 - vp.Padding - inner/2
	return s.clampOffset(target, vpExtent)
}

func (s *Scroller) clampOffset(offset, vpExtent int) int {
	max := s.renderer.ContentExtent() - vpExtent
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// scrollTo starts a smooth animation toward offset, or jumps immediately.
// A new call always cancels the previous trajectory first.
func (s *Scroller) scrollTo(offset int, animate bool) {
	vp := s.surface.Viewport()
	cfg := s.renderer.Config()
	vpExtent := vp.Height
	if cfg.Direction == layout.Horizontal {
		vpExtent = vp.Width
	}
	offset = s.clampOffset(offset, vpExtent)

	s.animHandle.Cancel()
	s.animHandle = nil

	if !animate || offset == vp.Offset {
		s.surface.SetOffset(offset)
		return
	}

	from := vp.Offset
	start := s.sched.Now()
	var step func()
	step = func() {
		p := float64(s.sched.Now().Sub(start)) / float64(animDuration)
		if p >= 1 {
			s.surface.SetOffset(offset)
			s.animHandle = nil
			return
		}
		s.surface.SetOffset(from + int(float64(offset-from)*easeInOutCubic(p)))
		s.animHandle = s.sched.OnNextFrame(step)
	}
	s.animHandle = s.sched.OnNextFrame(step)
}

// easeInOutCubic maps linear progress to eased progress.
func easeInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

// startConvergence re-samples the target card's position on successive
// frames, re-centering whenever the computed offset drifts, until the
// offset is stable for stableFrames consecutive frames or the budget
// elapses. This bounds the "chase the still-resizing content" problem.
func (s *Scroller) startConvergence(index int, animate bool) {
	deadline := s.sched.Now().Add(convergeBudget)
	lastTarget := -1
	stable := 0

	var step func()
	step = func() {
		s.convHandle = nil
		if s.sched.Now().After(deadline) {
			return
		}

		node, ok := s.renderer.NodeAt(index)
		if ok {
			target := s.centerTarget(node)
			switch {
			case lastTarget >= 0 && abs(target-lastTarget) <= convergeEpsilon:
				stable++
				if stable >= stableFrames {
					return
				}
			default:
				stable = 0
				lastTarget = target
				s.scrollTo(target, animate && s.renderer.Config().AnimateScroll)
			}
		}
		s.convHandle = s.sched.OnNextFrame(step)
	}
	s.convHandle = s.sched.OnNextFrame(step)
}

func (s *Scroller) stopConvergence() {
	s.convHandle.Cancel()
	s.convHandle = nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
