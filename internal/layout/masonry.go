package layout

import "cardwall-cli/internal/model"

// arrangeMasonry packs cards into columns using the greedy shortest-column
// heuristic: each card, in input order, goes to the column with the smallest
// accumulated height, ties broken by the lowest column index. This is a
// standard approximation to multi-way bin balancing; with roughly uniform
// card heights it keeps column heights within one card height of each other.
//
// Card heights come from measure when available (content already laid out),
// otherwise from the configured card height. There is no incremental update
// path: packing is sensitive to the total card count, so any change re-runs
// the whole arrangement.
func arrangeMasonry(cards []model.Card, availW int, cfg Config, measure Measure) []Position {
	columns := cfg.MasonryColumnCount(availW)

	heights := make([]int, columns)
	positions := make([]Position, len(cards))

	fallback := cfg.CardHeight
	if fallback <= 0 {
		fallback = 1
	}

	for i, c := range cards {
		col := shortestColumn(heights)

		h := 0
		if measure != nil {
			h = measure(c.ID())
		}
		if h <= 0 {
			h = fallback
		}

		positions[i] = Position{
			CardID: c.ID(),
			X:      cfg.Padding + col*(cfg.CardWidth+cfg.Gap),
			Y:      cfg.Padding + heights[col],
			Width:  cfg.CardWidth,
			Height: h,
		}
		heights[col] += h + cfg.Gap
	}
	return positions
}

func shortestColumn(heights []int) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}
