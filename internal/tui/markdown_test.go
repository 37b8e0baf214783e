package tui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := renderMarkdown("", 40); got != "" {
		t.Fatalf("empty input rendered %q", got)
	}
	if got := renderMarkdown("   \n\t", 40); got != "" {
		t.Fatalf("whitespace input rendered %q", got)
	}
}

func TestRenderMarkdownWraps(t *testing.T) {
	out := renderMarkdown("one two three four five six seven eight nine ten", 20)
	for _, ln := range strings.Split(out, "\n") {
		if w := len(stripANSIEscapes(ln)); w > 24 {
			t.Fatalf("line exceeds wrap width: %d %q", w, ln)
		}
	}
}

func TestRenderMarkdownTinyWidthClamped(t *testing.T) {
	// Widths below the minimum are clamped rather than erroring.
	if out := renderMarkdown("hello", 1); out == "" {
		t.Fatal("tiny width should still render")
	}
}

func TestMarkdownStyleEnvOverride(t *testing.T) {
	t.Setenv("CARDWALL_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("style = %q, want light", got)
	}
	t.Setenv("CARDWALL_MD_STYLE", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("style = %q, want dark", got)
	}
}

func TestMarkdownStyleColorFgBgHeuristic(t *testing.T) {
	t.Setenv("CARDWALL_MD_STYLE", "")
	t.Setenv("CARDWALL_THEME", "")
	t.Setenv("CARDWALL_DARKBG", "")
	t.Setenv("COLORFGBG", "15;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("style with dark bg = %q, want dark", got)
	}
	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("style with light bg = %q, want light", got)
	}
}
