package layout

import (
	"fmt"
	"reflect"
	"testing"

	"cardwall-cli/internal/model"
)

func testCards(n int) []model.Card {
	cards := make([]model.Card, n)
	for i := range cards {
		cards[i] = model.Card{Path: fmt.Sprintf("notes/card-%02d.md", i), Title: fmt.Sprintf("Card %d", i)}
	}
	return cards
}

func testConfig() Config {
	return Config{
		CardWidth:       30,
		CardHeight:      10,
		Gap:             2,
		AlignCardHeight: true,
		CardsPerView:    6,
	}
}

func TestArrangeEmptyInput(t *testing.T) {
	for _, kind := range []Kind{KindList, KindGrid, KindMasonry} {
		got := Arrange(kind, nil, 100, 40, testConfig(), nil)
		if len(got) != 0 {
			t.Fatalf("%s: expected empty positions for empty input, got %d", kind, len(got))
		}
	}
}

func TestArrangePreservesLengthAndOrder(t *testing.T) {
	cards := testCards(13)
	for _, kind := range []Kind{KindList, KindGrid, KindMasonry} {
		positions := Arrange(kind, cards, 100, 40, testConfig(), nil)
		if len(positions) != len(cards) {
			t.Fatalf("%s: got %d positions for %d cards", kind, len(positions), len(cards))
		}
		for i := range cards {
			if positions[i].CardID != cards[i].ID() {
				t.Fatalf("%s: positions[%d].CardID = %q, want %q", kind, i, positions[i].CardID, cards[i].ID())
			}
		}
	}
}

func TestArrangeIdempotent(t *testing.T) {
	cards := testCards(9)
	cfg := testConfig()
	for _, kind := range []Kind{KindList, KindGrid, KindMasonry} {
		a := Arrange(kind, cards, 100, 40, cfg, nil)
		b := Arrange(kind, cards, 100, 40, cfg, nil)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: repeated Arrange with identical inputs differs:\n%v\n%v", kind, a, b)
		}
	}
}

func TestArrangeNarrowContainerClampsToOneColumn(t *testing.T) {
	cards := testCards(4)
	cfg := testConfig()

	// Container narrower than a single card still yields one column.
	positions := Arrange(KindGrid, cards, cfg.CardWidth/2, 40, cfg, nil)
	for i, p := range positions {
		if p.X != 0 {
			t.Fatalf("card %d: X = %d, want 0 (single column)", i, p.X)
		}
	}

	positions = Arrange(KindMasonry, cards, 1, 40, cfg, nil)
	for i, p := range positions {
		if p.X != 0 {
			t.Fatalf("masonry card %d: X = %d, want 0 (single column)", i, p.X)
		}
	}
}

func TestArrangeListStacksAlongScrollAxis(t *testing.T) {
	cards := testCards(3)
	cfg := testConfig()

	positions := Arrange(KindList, cards, 80, 40, cfg, nil)
	for i, p := range positions {
		wantY := i * (cfg.CardHeight + cfg.Gap)
		if p.Y != wantY {
			t.Fatalf("card %d: Y = %d, want %d", i, p.Y, wantY)
		}
		if p.Width != 80 {
			t.Fatalf("card %d: Width = %d, want cross-axis fill 80", i, p.Width)
		}
		if p.Height != cfg.CardHeight {
			t.Fatalf("card %d: Height = %d, want %d", i, p.Height, cfg.CardHeight)
		}
	}
}

func TestArrangeListAutoHeightWhenAlignmentOff(t *testing.T) {
	cfg := testConfig()
	cfg.AlignCardHeight = false

	positions := Arrange(KindList, testCards(2), 80, 40, cfg, nil)
	for i, p := range positions {
		if p.Height != HeightAuto {
			t.Fatalf("card %d: Height = %d, want HeightAuto", i, p.Height)
		}
	}
}

func TestArrangeListAutoHeightUsesMeasuredSizes(t *testing.T) {
	cfg := testConfig()
	cfg.AlignCardHeight = false
	cards := testCards(3)

	measured := map[string]int{
		cards[0].ID(): 10,
		cards[1].ID(): 4,
		// cards[2] unmeasured: falls back to the configured card height.
	}
	measure := func(id string) int { return measured[id] }

	positions := Arrange(KindList, cards, 80, 40, cfg, measure)

	wantY := []int{0, 10 + cfg.Gap, 10 + 4 + 2*cfg.Gap}
	for i, p := range positions {
		if p.Y != wantY[i] {
			t.Fatalf("card %d: Y = %d, want %d", i, p.Y, wantY[i])
		}
		if p.Height != HeightAuto {
			t.Fatalf("card %d: Height = %d, want HeightAuto", i, p.Height)
		}
	}

	// An unmeasured pass behaves as if every card were card-height tall.
	positions = Arrange(KindList, cards, 80, 40, cfg, nil)
	for i, p := range positions {
		want := i * (cfg.CardHeight + cfg.Gap)
		if p.Y != want {
			t.Fatalf("unmeasured card %d: Y = %d, want %d", i, p.Y, want)
		}
	}
}

func TestArrangeListHorizontalDirection(t *testing.T) {
	cfg := testConfig()
	cfg.Direction = Horizontal

	positions := Arrange(KindList, testCards(3), 200, 40, cfg, nil)
	for i, p := range positions {
		wantX := i * (cfg.CardWidth + cfg.Gap)
		if p.X != wantX {
			t.Fatalf("card %d: X = %d, want %d", i, p.X, wantX)
		}
		if p.Y != 0 {
			t.Fatalf("card %d: Y = %d, want 0", i, p.Y)
		}
		if p.Height != 40 {
			t.Fatalf("card %d: Height = %d, want cross-axis fill 40", i, p.Height)
		}
	}
}

func TestExtentVertical(t *testing.T) {
	cfg := testConfig()
	positions := Arrange(KindList, testCards(3), 80, 40, cfg, nil)

	want := 3*cfg.CardHeight + 2*cfg.Gap
	if got := Extent(positions, cfg); got != want {
		t.Fatalf("Extent = %d, want %d", got, want)
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"list", KindList, false},
		{"Grid", KindGrid, false},
		{" masonry ", KindMasonry, false},
		{"", KindList, false},
		{"waterfall", KindList, true},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.err != (err != nil) {
			t.Fatalf("ParseKind(%q) error = %v, want err=%v", tc.in, err, tc.err)
		}
		if got != tc.want {
			t.Fatalf("ParseKind(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := cfg
	bad.CardWidth = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero card width")
	}

	bad = cfg
	bad.Gap = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative gap")
	}
}
