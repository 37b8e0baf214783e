package layout

import "cardwall-cli/internal/model"

// Position is the computed placement of one card within the panel's virtual
// canvas. Produced fresh on every arrangement and never persisted.
type Position struct {
	CardID string
	X      int
	Y      int
	Width  int
	Height int // HeightAuto for dynamically sized cards
}

// Measure reports the current main-axis size of a card's rendered content,
// or 0 when it has not been measured yet. Arrange falls back to the
// configured card height for unmeasured cards. A nil Measure means "nothing
// is measured".
type Measure func(cardID string) int

// Arrange computes a Position for every card. It is a pure function of its
// inputs: the result is length- and order-preserving (positions[i]
// corresponds to cards[i]) and calling it again with the same inputs yields
// the same output. No incremental state survives between calls; settings
// changes simply re-run it from scratch.
func Arrange(kind Kind, cards []model.Card, availW, availH int, cfg Config, measure Measure) []Position {
	if len(cards) == 0 {
		return []Position{}
	}
	switch kind {
	case KindGrid:
		return arrangeGrid(cards, availW, cfg)
	case KindMasonry:
		return arrangeMasonry(cards, availW, cfg, measure)
	default:
		return arrangeList(cards, availW, availH, cfg, measure)
	}
}

// arrangeList stacks cards sequentially along the scroll axis with a uniform
// gap. The cross axis fills the container; the main axis is the fixed card
// height, or auto when height alignment is off. Auto-height cards advance by
// their measured size, falling back to the configured card height until
// content settles and a restack re-runs the arrangement.
func arrangeList(cards []model.Card, availW, availH int, cfg Config, measure Measure) []Position {
	positions := make([]Position, len(cards))
	h := cfg.EffectiveCardHeight()

	if cfg.Direction == Horizontal {
		crossH := availH - 2*cfg.Padding
		if crossH < 1 {
			crossH = 1
		}
		x := cfg.Padding
		for i, c := range cards {
			positions[i] = Position{
				CardID: c.ID(),
				X:      x,
				Y:      cfg.Padding,
				Width:  cfg.CardWidth,
				Height: crossH,
			}
			x += cfg.CardWidth + cfg.Gap
		}
		return positions
	}

	crossW := availW - 2*cfg.Padding
	if crossW < 1 {
		crossW = 1
	}
	fallback := cfg.CardHeight
	if fallback <= 0 {
		fallback = 1
	}

	y := cfg.Padding
	for i, c := range cards {
		positions[i] = Position{
			CardID: c.ID(),
			X:      cfg.Padding,
			Y:      y,
			Width:  crossW,
			Height: h,
		}

		step := h
		if step == HeightAuto {
			step = 0
			if measure != nil {
				step = measure(c.ID())
			}
			if step <= 0 {
				step = fallback
			}
		}
		y += step + cfg.Gap
	}
	return positions
}

// arrangeGrid places cards row-major on a fixed lattice:
// col = i % columns, row = i / columns.
func arrangeGrid(cards []model.Card, availW int, cfg Config) []Position {
	columns := cfg.GridColumnCount(availW)
	h := cfg.CardHeight
	if h <= 0 {
		h = 1
	}
	positions := make([]Position, len(cards))
	for i, c := range cards {
		col := i % columns
		row := i / columns
		positions[i] = Position{
			CardID: c.ID(),
			X:      cfg.Padding + col*(cfg.CardWidth+cfg.Gap),
			Y:      cfg.Padding + row*(h+cfg.Gap),
			Width:  cfg.CardWidth,
			Height: h,
		}
	}
	return positions
}

// Extent returns the total main-axis size of an arrangement: the farthest
// card edge plus trailing padding. Auto-height cards count as at least one
// row. The scroller uses this to clamp offsets.
func Extent(positions []Position, cfg Config) int {
	max := 0
	for _, p := range positions {
		var end int
		if cfg.Direction == Horizontal {
			end = p.X + p.Width
		} else {
			h := p.Height
			if h == HeightAuto || h < 1 {
				h = 1
			}
			end = p.Y + h
		}
		if end > max {
			max = end
		}
	}
	if max == 0 {
		return 0
	}
	return max + cfg.Padding
}
