package model

import (
	"testing"
	"time"
)

func TestSortCardsByName(t *testing.T) {
	cards := []Card{
		{Path: "inbox/Beta.md"},
		{Path: "archive/gamma.md"},
		{Path: "inbox/alpha.md"},
	}
	SortCards(cards, SortByName)
	want := []string{"archive/gamma.md", "inbox/alpha.md", "inbox/Beta.md"}
	for i, w := range want {
		if cards[i].Path != w {
			t.Fatalf("order[%d] = %q, want %q", i, cards[i].Path, w)
		}
	}
}

func TestSortCardsByModifiedNewestFirst(t *testing.T) {
	base := time.Now()
	cards := []Card{
		{Path: "old.md", ModTime: base.Add(-time.Hour)},
		{Path: "new.md", ModTime: base},
		{Path: "tie-b.md", ModTime: base.Add(-time.Minute)},
		{Path: "tie-a.md", ModTime: base.Add(-time.Minute)},
	}
	SortCards(cards, SortByModified)
	want := []string{"new.md", "tie-a.md", "tie-b.md", "old.md"}
	for i, w := range want {
		if cards[i].Path != w {
			t.Fatalf("order[%d] = %q, want %q", i, cards[i].Path, w)
		}
	}
}

func TestHasTag(t *testing.T) {
	c := Card{Tags: []string{"project/home", "idea"}}
	if !c.HasTag("idea") || !c.HasTag("#Idea") || !c.HasTag(" project/home ") {
		t.Fatal("expected tag matches")
	}
	if c.HasTag("") || c.HasTag("#") || c.HasTag("home") {
		t.Fatal("unexpected tag matches")
	}
}
