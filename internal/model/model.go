package model

import (
	"sort"
	"strings"
	"time"
)

// Card is the view-model for one displayed document summary.
// It is keyed by the source document's path, which is stable across renders.
// The layout/render core treats cards as read-only input.
type Card struct {
	// Path is the card's stable identifier (path of the source document).
	Path string `json:"path"`

	Title   string   `json:"title"`
	Body    string   `json:"body,omitempty"` // raw markdown body / preview source
	Tags    []string `json:"tags,omitempty"`
	ModTime time.Time `json:"modTime"`
}

// ID returns the card's stable identifier.
func (c Card) ID() string { return c.Path }

type CardSetKind string

const (
	CardSetFolder CardSetKind = "folder"
	CardSetTag    CardSetKind = "tag"
	CardSetSearch CardSetKind = "search"
)

// CardSet describes which documents a view shows. It is resolved into an
// ordered []Card by a source.Source; the core never interprets it itself.
type CardSet struct {
	Kind  CardSetKind `json:"kind"`
	Value string      `json:"value"` // folder path, tag name, or search query
}

type SortOrder string

const (
	SortByName     SortOrder = "name"
	SortByModified SortOrder = "modified"
)

// SortCards orders cards in place. Modified sorts newest first; ties (and
// the name order) compare paths case-insensitively so results are stable
// across platforms.
func SortCards(cards []Card, order SortOrder) {
	switch order {
	case SortByModified:
		sort.SliceStable(cards, func(i, j int) bool {
			if !cards[i].ModTime.Equal(cards[j].ModTime) {
				return cards[i].ModTime.After(cards[j].ModTime)
			}
			return lessPath(cards[i].Path, cards[j].Path)
		})
	default:
		sort.SliceStable(cards, func(i, j int) bool {
			return lessPath(cards[i].Path, cards[j].Path)
		})
	}
}

func lessPath(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// HasTag reports whether the card carries tag (case-insensitive, without
// the leading '#').
func (c Card) HasTag(tag string) bool {
	tag = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "#")
	if tag == "" {
		return false
	}
	for _, t := range c.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}
