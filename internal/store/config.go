// Package store persists user settings. The layout/render core never writes
// settings; it only consumes the layout configuration derived from them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cardwall-cli/internal/layout"
)

// Settings is the user-facing configuration for the cards panel. Zero/empty
// fields fall back to defaults on load, so hand-edited partial files work.
type Settings struct {
	// LayoutType is "list", "grid" or "masonry".
	LayoutType string `json:"layoutType,omitempty"`

	CardWidth int `json:"cardWidth,omitempty"`
	// CardHeightMode is "fixed" or "auto".
	CardHeightMode string `json:"cardHeightMode,omitempty"`
	CardHeight     int    `json:"cardHeight,omitempty"`
	Gap            int    `json:"gap,omitempty"`
	Padding        int    `json:"padding,omitempty"`

	// ScrollDirection is "vertical" or "horizontal".
	ScrollDirection string `json:"scrollDirection,omitempty"`

	GridColumns    int `json:"gridColumns,omitempty"`
	MasonryColumns int `json:"masonryColumns,omitempty"`
	CardsPerView   int `json:"cardsPerView,omitempty"`

	EnableScrollAnimation *bool `json:"enableScrollAnimation,omitempty"`
	AlignCardHeight       *bool `json:"alignCardHeight,omitempty"`

	// SortOrder is "name" or "modified".
	SortOrder string `json:"sortOrder,omitempty"`
}

func DefaultSettings() Settings {
	on := true
	return Settings{
		LayoutType:            "grid",
		CardWidth:             34,
		CardHeightMode:        "fixed",
		CardHeight:            9,
		Gap:                   1,
		Padding:               1,
		ScrollDirection:       "vertical",
		CardsPerView:          6,
		EnableScrollAnimation: &on,
		AlignCardHeight:       &on,
		SortOrder:             "name",
	}
}

// ConfigDir resolves the settings directory: $CARDWALL_CONFIG_DIR, else
// ~/.config/cardwall.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("CARDWALL_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "cardwall"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadSettings reads the settings file, filling defaults for anything
// missing. A missing file is not an error: it yields the defaults.
func LoadSettings() (Settings, error) {
	path, err := configPath()
	if err != nil {
		return DefaultSettings(), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(b, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.fillDefaults()
	return s, nil
}

// SaveSettings writes the settings file, creating the config directory as
// needed.
func SaveSettings(s Settings) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func (s *Settings) fillDefaults() {
	d := DefaultSettings()
	if strings.TrimSpace(s.LayoutType) == "" {
		s.LayoutType = d.LayoutType
	}
	if s.CardWidth <= 0 {
		s.CardWidth = d.CardWidth
	}
	if strings.TrimSpace(s.CardHeightMode) == "" {
		s.CardHeightMode = d.CardHeightMode
	}
	if s.CardHeight <= 0 {
		s.CardHeight = d.CardHeight
	}
	if s.Gap < 0 {
		s.Gap = d.Gap
	}
	if s.Padding < 0 {
		s.Padding = d.Padding
	}
	if strings.TrimSpace(s.ScrollDirection) == "" {
		s.ScrollDirection = d.ScrollDirection
	}
	if s.CardsPerView <= 0 {
		s.CardsPerView = d.CardsPerView
	}
	if s.EnableScrollAnimation == nil {
		s.EnableScrollAnimation = d.EnableScrollAnimation
	}
	if s.AlignCardHeight == nil {
		s.AlignCardHeight = d.AlignCardHeight
	}
	if strings.TrimSpace(s.SortOrder) == "" {
		s.SortOrder = d.SortOrder
	}
}

// LayoutKind resolves the configured layout policy.
func (s Settings) LayoutKind() layout.Kind {
	k, err := layout.ParseKind(s.LayoutType)
	if err != nil {
		return layout.KindGrid
	}
	return k
}

// LayoutConfig derives the core's layout configuration for a container of
// the given size. Card height mode "auto" disables height alignment
// regardless of the alignCardHeight flag.
func (s Settings) LayoutConfig(containerWidth, containerHeight int) layout.Config {
	dir := layout.Vertical
	if strings.EqualFold(strings.TrimSpace(s.ScrollDirection), "horizontal") {
		dir = layout.Horizontal
	}

	align := s.AlignCardHeight != nil && *s.AlignCardHeight
	if strings.EqualFold(strings.TrimSpace(s.CardHeightMode), "auto") {
		align = false
	}

	return layout.Config{
		ContainerWidth:  containerWidth,
		ContainerHeight: containerHeight,
		CardWidth:       s.CardWidth,
		CardHeight:      s.CardHeight,
		Gap:             s.Gap,
		Padding:         s.Padding,
		Direction:       dir,
		GridColumns:     s.GridColumns,
		MasonryColumns:  s.MasonryColumns,
		CardsPerView:    s.CardsPerView,
		AlignCardHeight: align,
		AnimateScroll:   s.EnableScrollAnimation != nil && *s.EnableScrollAnimation,
	}
}
