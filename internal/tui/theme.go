package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The panel must remain readable on both light and dark terminal backgrounds,
// so every color is a lipgloss.AdaptiveColor and "faint" styling is applied
// only on dark backgrounds (faint text on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted lipgloss.TerminalColor = ac("240", "243")

	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")

	// Card borders: unselected stays soft so the focused card stands out;
	// the focused border is very dark on light terminals, very bright on
	// dark ones.
	colorCardBorder    lipgloss.AdaptiveColor = ac("250", "243")
	colorFocusedBorder lipgloss.AdaptiveColor = ac("232", "255")
	// The active (last opened) card keeps an accent border even when focus
	// moves elsewhere.
	colorActiveBorder lipgloss.AdaptiveColor = ac("27", "62")

	colorAccent lipgloss.TerminalColor = ac("27", "62") // blue

	// Small secondary labels inside cards (tags, modified time).
	colorCardMetaFg lipgloss.TerminalColor = ac("238", "250")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleStatusBar() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleCardTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleCardMeta() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorCardMetaFg))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the panel.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful
// for non-interactive CLI output but can accidentally disable colors in a
// full-screen TUI. Here we only honor NO_COLOR and otherwise follow the
// terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector
	// reports, trust the env. Color probing under-reports in some
	// terminals, leading to degraded "gray" output.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Some terminals don't reliably report their background, which makes
// AdaptiveColor pick the wrong variant. Priority:
//  1. CARDWALL_THEME=light|dark|auto
//  2. CARDWALL_DARKBG=true|false
//  3. COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference() {
	if v := strings.TrimSpace(os.Getenv("CARDWALL_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		case "auto":
			// fall through to heuristics
		default:
			// Unknown value: ignore.
		}
	}

	if v := strings.TrimSpace(os.Getenv("CARDWALL_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgStr := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgStr); err == nil {
			// Common xterm palette: 0-6 dark colors, 7-15 light.
			lipgloss.SetHasDarkBackground(bg < 7)
			return
		}
	}
}
