package layout

import "testing"

// Reference scenario: container width 1000, card width 300, gap 20 gives
// floor(1000/320) = 3 columns; 7 cards land on rows [0,0,0,1,1,1,2] with the
// last card back at column 0.
func TestGridColumnDerivationScenario(t *testing.T) {
	cfg := Config{
		CardWidth:       300,
		CardHeight:      100,
		Gap:             20,
		AlignCardHeight: true,
	}

	if got := cfg.GridColumnCount(1000); got != 3 {
		t.Fatalf("GridColumnCount(1000) = %d, want 3", got)
	}

	cards := testCards(7)
	positions := Arrange(KindGrid, cards, 1000, 800, cfg, nil)

	wantRows := []int{0, 0, 0, 1, 1, 1, 2}
	for i, p := range positions {
		col := i % 3
		row := wantRows[i]
		wantX := col * (cfg.CardWidth + cfg.Gap)
		wantY := row * (cfg.CardHeight + cfg.Gap)
		if p.X != wantX || p.Y != wantY {
			t.Fatalf("card %d: at (%d,%d), want (%d,%d)", i, p.X, p.Y, wantX, wantY)
		}
	}

	last := positions[6]
	if last.X != 0 || last.Y != 2*(cfg.CardHeight+cfg.Gap) {
		t.Fatalf("last card at (%d,%d), want col 0 row 2", last.X, last.Y)
	}
}

func TestGridFixedColumnOverride(t *testing.T) {
	cfg := Config{
		CardWidth:   300,
		CardHeight:  100,
		Gap:         20,
		GridColumns: 2,
	}
	if got := cfg.GridColumnCount(1000); got != 2 {
		t.Fatalf("GridColumnCount with fixed override = %d, want 2", got)
	}
}

func TestGridPaddingOffsetsOrigin(t *testing.T) {
	cfg := Config{
		CardWidth:  10,
		CardHeight: 4,
		Gap:        1,
		Padding:    2,
	}
	positions := Arrange(KindGrid, testCards(1), 50, 20, cfg, nil)
	if positions[0].X != 2 || positions[0].Y != 2 {
		t.Fatalf("first card at (%d,%d), want padded origin (2,2)", positions[0].X, positions[0].Y)
	}
}
