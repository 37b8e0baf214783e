package nav_test

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"cardwall-cli/internal/frame"
	"cardwall-cli/internal/layout"
	"cardwall-cli/internal/model"
	"cardwall-cli/internal/nav"
	"cardwall-cli/internal/render"
	"cardwall-cli/internal/render/rendertest"
)

type centerCall struct {
	index   int
	animate bool
}

type fakeCenterer struct {
	calls []centerCall
}

func (f *fakeCenterer) CenterIndex(index int, animate bool) {
	f.calls = append(f.calls, centerCall{index: index, animate: animate})
}

type fixture struct {
	surface  *rendertest.Surface
	loop     *frame.Loop
	renderer *render.Renderer
	nav      *nav.Navigator
	center   *fakeCenterer
	cards    []model.Card
}

// newFixture renders n cards in a 3-column grid (container 100x40, card
// 30x10, gap 2) and settles all frame work.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()

	surface := rendertest.NewSurface(100, 40)
	loop := frame.NewLoop(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	renderer := render.New(surface, loop, log.New(io.Discard))
	renderer.SetLayout(layout.KindGrid, layout.Config{
		ContainerWidth:  100,
		ContainerHeight: 40,
		CardWidth:       30,
		CardHeight:      10,
		Gap:             2,
		CardsPerView:    6,
		AlignCardHeight: true,
	})

	center := &fakeCenterer{}
	navigator := nav.New(renderer, loop, center, log.New(io.Discard))
	renderer.SetAfterRender(navigator.Revalidate)

	cards := make([]model.Card, n)
	for i := range cards {
		cards[i] = model.Card{Path: fmt.Sprintf("notes/c%02d.md", i), Title: fmt.Sprintf("C%d", i)}
	}
	renderer.Render(cards, "", "")
	for i := 0; i < 100 && loop.Pending(); i++ {
		loop.Step()
	}

	return &fixture{
		surface:  surface,
		loop:     loop,
		renderer: renderer,
		nav:      navigator,
		center:   center,
		cards:    cards,
	}
}

func (f *fixture) settleStyling() {
	f.loop.Advance(50 * time.Millisecond)
}

func TestFocusPrefersActiveCard(t *testing.T) {
	f := newFixture(t, 9)
	f.nav.SetActiveCard(f.cards[5].ID())

	f.nav.Focus()
	if got := f.nav.FocusedIndex(); got != 5 {
		t.Fatalf("FocusedIndex = %d, want 5", got)
	}
}

func TestFocusFallsBackToFirstVisibleThenZero(t *testing.T) {
	f := newFixture(t, 9)

	// Scrolled down: the first fully visible card is in the second row.
	f.surface.SetOffset(6)
	f.nav.Focus()
	if got := f.nav.FocusedIndex(); got != 3 {
		t.Fatalf("FocusedIndex = %d, want 3 (first fully visible row)", got)
	}

	f.nav.Blur()
	f.surface.SetOffset(0)
	f.nav.Focus()
	if got := f.nav.FocusedIndex(); got != 0 {
		t.Fatalf("FocusedIndex = %d, want 0", got)
	}
}

func TestFocusWithNoCardsStaysUnfocused(t *testing.T) {
	f := newFixture(t, 0)
	f.nav.Focus()
	if f.nav.Focused() {
		t.Fatal("navigator focused with zero cards")
	}
}

func TestBlurClearsIndex(t *testing.T) {
	f := newFixture(t, 4)
	f.nav.Focus()
	f.nav.Blur()
	if f.nav.Focused() || f.nav.FocusedIndex() != -1 {
		t.Fatalf("after Blur: focused=%v index=%d", f.nav.Focused(), f.nav.FocusedIndex())
	}
	if f.nav.FocusedID() != "" {
		t.Fatal("FocusedID non-empty after Blur")
	}
}

func TestMoveBoundaryClamping(t *testing.T) {
	f := newFixture(t, 7)
	f.nav.Focus()

	f.nav.Move(0, -1) // left from index 0
	if got := f.nav.FocusedIndex(); got != 0 {
		t.Fatalf("left from 0 moved to %d", got)
	}
	f.nav.Move(-1, 0) // up from first row
	if got := f.nav.FocusedIndex(); got != 0 {
		t.Fatalf("up from 0 moved to %d", got)
	}

	f.nav.End()
	f.nav.Move(0, 1) // right past the last card
	if got := f.nav.FocusedIndex(); got != 6 {
		t.Fatalf("right past end moved to %d", got)
	}
	f.nav.Move(1, 0) // down past the last row
	if got := f.nav.FocusedIndex(); got != 6 {
		t.Fatalf("down past end moved to %d", got)
	}
}

func TestMoveColumnWrap(t *testing.T) {
	f := newFixture(t, 9)
	f.nav.Focus()

	// Right from the last column wraps to the next row, first column.
	f.nav.Move(0, 1)
	f.nav.Move(0, 1)
	f.nav.Move(0, 1)
	if got := f.nav.FocusedIndex(); got != 3 {
		t.Fatalf("after three rights: index %d, want 3", got)
	}

	// Left from the first column wraps back.
	f.nav.Move(0, -1)
	if got := f.nav.FocusedIndex(); got != 2 {
		t.Fatalf("left from row 1 col 0: index %d, want 2", got)
	}
}

// Grid index round-trip: applying (rowDelta, colDelta) through the 2-D
// mapping matches direct arithmetic row*columns+col whenever the target is
// in range.
func TestMoveMatchesGridArithmetic(t *testing.T) {
	f := newFixture(t, 12) // 4 rows x 3 columns
	f.nav.Focus()
	const columns = 3

	deltas := []struct{ dr, dc int }{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {-1, -1}}
	for start := 0; start < 12; start++ {
		for _, d := range deltas {
			f.nav.Home()
			for f.nav.FocusedIndex() < start {
				f.nav.Move(0, 1)
			}

			row, col := start/columns, start%columns
			want := (row+d.dr)*columns + (col + d.dc)
			if col+d.dc < 0 {
				want = (row+d.dr-1)*columns + (col + d.dc + columns)
			} else if col+d.dc >= columns {
				want = (row+d.dr+1)*columns + (col + d.dc - columns)
			}
			if want < 0 || want >= 12 {
				want = start // out of range: no-op
			}

			f.nav.Move(d.dr, d.dc)
			if got := f.nav.FocusedIndex(); got != want {
				t.Fatalf("from %d move (%d,%d): got %d, want %d", start, d.dr, d.dc, got, want)
			}
		}
	}
}

// Page-move scenario: focused index 4 in a 3-column grid, cards-per-view 6,
// 10 cards. With no measurable card extent the configured fallback applies
// and the target clamps to the last card: min(9, 4+6) = 9.
func TestPageMoveFallbackScenario(t *testing.T) {
	f := newFixture(t, 10)
	f.nav.Focus()
	for f.nav.FocusedIndex() < 4 {
		f.nav.Move(0, 1)
	}

	// Drop the rendered nodes so card extent cannot be measured.
	for _, c := range f.cards {
		f.surface.Remove(c.ID())
	}

	f.nav.PageMove(1)
	if got := f.nav.FocusedIndex(); got != 9 {
		t.Fatalf("PageDown from 4: index %d, want 9", got)
	}

	f.nav.PageMove(-1)
	if got := f.nav.FocusedIndex(); got != 3 {
		t.Fatalf("PageUp from 9: index %d, want 3", got)
	}

	f.nav.PageMove(-1)
	if got := f.nav.FocusedIndex(); got != 0 {
		t.Fatalf("PageUp past start: index %d, want 0", got)
	}
}

func TestPageMoveUsesMeasuredExtent(t *testing.T) {
	f := newFixture(t, 30)
	f.nav.Focus()

	// Container height 40, card extent 10+2 gap: 3 rows per page in a
	// 3-column grid = 9 cards.
	f.nav.PageMove(1)
	if got := f.nav.FocusedIndex(); got != 9 {
		t.Fatalf("measured PageDown: index %d, want 9", got)
	}
}

func TestHomeEnd(t *testing.T) {
	f := newFixture(t, 8)
	f.nav.Focus()

	f.nav.End()
	if got := f.nav.FocusedIndex(); got != 7 {
		t.Fatalf("End: index %d, want 7", got)
	}
	f.nav.Home()
	if got := f.nav.FocusedIndex(); got != 0 {
		t.Fatalf("Home: index %d, want 0", got)
	}
}

func TestOpenDelegatesFocusedCard(t *testing.T) {
	f := newFixture(t, 5)
	opened := ""
	f.nav.SetOpenFunc(func(id string) { opened = id })

	f.nav.Open() // unfocused: no-op
	if opened != "" {
		t.Fatal("Open fired while unfocused")
	}

	f.nav.Focus()
	f.nav.Move(0, 1)
	f.nav.Open()
	if opened != f.cards[1].ID() {
		t.Fatalf("opened %q, want %q", opened, f.cards[1].ID())
	}
}

func TestMoveRequestsCentering(t *testing.T) {
	f := newFixture(t, 9)
	f.nav.Focus()
	f.center.calls = nil

	f.nav.Move(1, 0)
	if len(f.center.calls) != 1 {
		t.Fatalf("center requests = %d, want 1", len(f.center.calls))
	}
	if f.center.calls[0].index != 3 || !f.center.calls[0].animate {
		t.Fatalf("center call = %+v, want index 3 animated", f.center.calls[0])
	}
}

func TestFocusStylingIsDebounced(t *testing.T) {
	f := newFixture(t, 9)
	f.nav.Focus()
	f.settleStyling()

	// A burst of moves applies styling once, for the final index only.
	f.nav.Move(0, 1)
	f.nav.Move(0, 1)
	if f.surface.Get(f.cards[2].ID()).Focused {
		t.Fatal("focus style applied before debounce elapsed")
	}
	f.settleStyling()
	if !f.surface.Get(f.cards[2].ID()).Focused {
		t.Fatal("focus style not applied after debounce")
	}
	if f.surface.Get(f.cards[1].ID()).Focused {
		t.Fatal("intermediate index styled")
	}
}

func TestRevalidateClampsAfterShrink(t *testing.T) {
	f := newFixture(t, 9)
	f.nav.Focus()
	f.nav.End()
	if f.nav.FocusedIndex() != 8 {
		t.Fatalf("End: index %d", f.nav.FocusedIndex())
	}

	f.renderer.Render(f.cards[:3], f.nav.FocusedID(), "")
	for i := 0; i < 100 && f.loop.Pending(); i++ {
		f.loop.Step()
	}

	if got := f.nav.FocusedIndex(); got != 2 {
		t.Fatalf("after shrink to 3 cards: index %d, want 2", got)
	}

	f.renderer.Render(nil, "", "")
	for i := 0; i < 100 && f.loop.Pending(); i++ {
		f.loop.Step()
	}
	if f.nav.Focused() {
		t.Fatal("still focused after all cards removed")
	}
}
