package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects the arrangement policy. It is a closed set; Arrange switches
// over it exhaustively instead of dispatching through an interface so adding
// a policy forces every call site to be revisited.
type Kind int

const (
	KindList Kind = iota
	KindGrid
	KindMasonry
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindGrid:
		return "grid"
	case KindMasonry:
		return "masonry"
	default:
		return fmt.Sprintf("layout.Kind(%d)", int(k))
	}
}

// ParseKind maps a settings string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list", "":
		return KindList, nil
	case "grid":
		return KindGrid, nil
	case "masonry":
		return KindMasonry, nil
	default:
		return KindList, fmt.Errorf("unknown layout kind %q", s)
	}
}

// Direction is the scroll axis of the panel.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

// HeightAuto marks a card whose main-axis size is determined by its content
// after the content renderer has filled it in.
const HeightAuto = -1

// Config holds container geometry and the style-derived numeric parameters
// every layout/scroll/navigation decision reads. All sizes are in terminal
// cells. It is replaced wholesale on settings or resize events; nothing in
// the core mutates it in place.
type Config struct {
	ContainerWidth  int
	ContainerHeight int

	CardWidth  int // > 0
	CardHeight int // fixed rows, or HeightAuto when AlignCardHeight is off
	Gap        int // >= 0
	Padding    int

	Direction Direction

	// GridColumns fixes the grid column count; 0 derives it from the width.
	GridColumns int
	// MasonryColumns is the target masonry column count, clamped to what
	// the width can actually hold.
	MasonryColumns int

	// CardsPerView is the fallback page size when card extent cannot be
	// measured.
	CardsPerView int

	AlignCardHeight bool
	AnimateScroll   bool
}

var (
	errCardWidth = errors.New("layout: card width must be positive")
	errGap       = errors.New("layout: gap must be non-negative")
)

func (c Config) Validate() error {
	if c.CardWidth <= 0 {
		return errCardWidth
	}
	if c.Gap < 0 {
		return errGap
	}
	return nil
}

// EffectiveCardHeight is the fixed main-axis card size, or HeightAuto when
// height alignment is disabled.
func (c Config) EffectiveCardHeight() int {
	if !c.AlignCardHeight {
		return HeightAuto
	}
	if c.CardHeight <= 0 {
		return HeightAuto
	}
	return c.CardHeight
}

// Columns derives how many card columns fit in availableWidth, honoring a
// fixed override. Never less than 1, even for degenerate widths.
func (c Config) Columns(availableWidth int, fixed int) int {
	if fixed > 0 {
		return fixed
	}
	usable := availableWidth - 2*c.Padding
	if c.CardWidth+c.Gap <= 0 {
		return 1
	}
	n := usable / (c.CardWidth + c.Gap)
	if n < 1 {
		return 1
	}
	return n
}

// GridColumnCount resolves the grid column count for availableWidth.
func (c Config) GridColumnCount(availableWidth int) int {
	return c.Columns(availableWidth, c.GridColumns)
}

// MasonryColumnCount resolves the masonry column count for availableWidth:
// the configured target, but never more than the width can hold.
func (c Config) MasonryColumnCount(availableWidth int) int {
	derived := c.Columns(availableWidth, 0)
	if c.MasonryColumns > 0 && c.MasonryColumns < derived {
		return c.MasonryColumns
	}
	return derived
}

// ColumnCount resolves the active column count for kind. List layouts are a
// single column by definition.
func (c Config) ColumnCount(kind Kind, availableWidth int) int {
	switch kind {
	case KindGrid:
		return c.GridColumnCount(availableWidth)
	case KindMasonry:
		return c.MasonryColumnCount(availableWidth)
	default:
		return 1
	}
}
