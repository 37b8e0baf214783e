package layout

import "testing"

// Shortest-column scenario: 3 columns, card heights [100,100,100,50,50].
// The first three cards fill columns 0..2; cards 3 and 4 go back to columns
// 0 and 1 (lowest-index tie break), leaving final column heights within one
// card height of each other.
func TestMasonryShortestColumnPlacement(t *testing.T) {
	cfg := Config{
		CardWidth:      300,
		CardHeight:     100,
		Gap:            10,
		MasonryColumns: 3,
	}
	cards := testCards(5)
	heights := map[string]int{
		cards[0].ID(): 100,
		cards[1].ID(): 100,
		cards[2].ID(): 100,
		cards[3].ID(): 50,
		cards[4].ID(): 50,
	}
	measure := func(id string) int { return heights[id] }

	positions := Arrange(KindMasonry, cards, 1000, 800, cfg, measure)

	col := func(i int) int { return positions[i].X / (cfg.CardWidth + cfg.Gap) }

	wantCols := []int{0, 1, 2, 0, 1}
	for i, want := range wantCols {
		if col(i) != want {
			t.Fatalf("card %d placed in column %d, want %d", i, col(i), want)
		}
	}

	// Cards 3 and 4 stack below the first row.
	if positions[3].Y != 100+cfg.Gap {
		t.Fatalf("card 3 Y = %d, want %d", positions[3].Y, 100+cfg.Gap)
	}
	if positions[4].Y != 100+cfg.Gap {
		t.Fatalf("card 4 Y = %d, want %d", positions[4].Y, 100+cfg.Gap)
	}
}

// Balance property: N uniform cards across C columns end with the tallest
// and shortest columns at most one card (plus its gap) apart.
func TestMasonryBalanceUniformHeights(t *testing.T) {
	const cardH = 8
	cfg := Config{
		CardWidth:      20,
		CardHeight:     cardH,
		Gap:            1,
		MasonryColumns: 4,
	}

	for _, n := range []int{1, 4, 5, 17, 40} {
		cards := testCards(n)
		positions := Arrange(KindMasonry, cards, 200, 100, cfg, nil)

		heights := make([]int, 4)
		for _, p := range positions {
			c := p.X / (cfg.CardWidth + cfg.Gap)
			bottom := p.Y + p.Height + cfg.Gap
			if bottom > heights[c] {
				heights[c] = bottom
			}
		}

		min, max := heights[0], heights[0]
		for _, h := range heights[1:] {
			if h < min {
				min = h
			}
			if h > max {
				max = h
			}
		}
		// Fully empty columns only happen when n < columns; skip those from
		// the balance check.
		if n >= 4 && max-min > cardH+cfg.Gap {
			t.Fatalf("n=%d: column heights %v spread %d, want <= %d", n, heights, max-min, cardH+cfg.Gap)
		}
	}
}

func TestMasonryTargetColumnsClampedByWidth(t *testing.T) {
	cfg := Config{
		CardWidth:      30,
		CardHeight:     10,
		Gap:            2,
		MasonryColumns: 10,
	}
	// Only floor(100/32) = 3 columns fit.
	if got := cfg.MasonryColumnCount(100); got != 3 {
		t.Fatalf("MasonryColumnCount(100) = %d, want 3", got)
	}
}

func TestMasonryUnmeasuredCardsUseConfiguredHeight(t *testing.T) {
	cfg := Config{
		CardWidth:      30,
		CardHeight:     6,
		Gap:            2,
		MasonryColumns: 1,
	}
	positions := Arrange(KindMasonry, testCards(2), 40, 40, cfg, nil)
	if positions[1].Y != 6+2 {
		t.Fatalf("second card Y = %d, want %d", positions[1].Y, 8)
	}
}
