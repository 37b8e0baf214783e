package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"cardwall-cli/internal/model"
)

// scanConcurrency bounds parallel file reads during a scan.
const scanConcurrency = 8

var tagPattern = regexp.MustCompile(`(^|\s)#([\p{L}\p{N}_/-]+)`)

// DirSource resolves card sets by scanning a notes directory for markdown
// files.
type DirSource struct {
	Root string

	// Order applied to every resolved card list.
	Order model.SortOrder
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root, Order: model.SortByName}
}

func (s *DirSource) Resolve(ctx context.Context, set model.CardSet) ([]model.Card, error) {
	switch set.Kind {
	case model.CardSetFolder, "":
		return s.scanFolder(ctx, set.Value)
	case model.CardSetTag:
		cards, err := s.scanFolder(ctx, "")
		if err != nil {
			return nil, err
		}
		return filterCards(cards, func(c model.Card) bool { return c.HasTag(set.Value) }), nil
	case model.CardSetSearch:
		cards, err := s.scanFolder(ctx, "")
		if err != nil {
			return nil, err
		}
		q := strings.ToLower(strings.TrimSpace(set.Value))
		return filterCards(cards, func(c model.Card) bool {
			return q == "" ||
				strings.Contains(strings.ToLower(c.Title), q) ||
				strings.Contains(strings.ToLower(c.Body), q)
		}), nil
	default:
		return nil, fmt.Errorf("unknown card set kind %q", set.Kind)
	}
}

// scanFolder walks sub (relative to the root) and parses every markdown
// file, bounded by scanConcurrency.
func (s *DirSource) scanFolder(ctx context.Context, sub string) ([]model.Card, error) {
	base := s.Root
	if strings.TrimSpace(sub) != "" {
		base = filepath.Join(s.Root, filepath.FromSlash(sub))
	}

	var paths []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden config directories (.git and the like) are skipped.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != base {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}

	cards := make([]model.Card, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			card, err := s.parseCard(path)
			if err != nil {
				return err
			}
			cards[i] = card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	model.SortCards(cards, s.Order)
	return cards, nil
}

// parseCard builds the card view-model for one markdown file. The card id
// is the path relative to the root, slash-separated.
func (s *DirSource) parseCard(path string) (model.Card, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Card{}, fmt.Errorf("read %s: %w", path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return model.Card{}, err
	}

	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		rel = path
	}

	body := string(b)
	return model.Card{
		Path:    filepath.ToSlash(rel),
		Title:   extractTitle(body, path),
		Body:    body,
		Tags:    extractTags(body),
		ModTime: st.ModTime(),
	}, nil
}

// AbsPath maps a card id back to its file on disk.
func (s *DirSource) AbsPath(cardID string) string {
	return filepath.Join(s.Root, filepath.FromSlash(cardID))
}

// extractTitle takes the first ATX heading, or the file name without its
// extension when the document has none.
func extractTitle(body, path string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "#"); ok {
			rest = strings.TrimLeft(rest, "#")
			if title := strings.TrimSpace(rest); title != "" {
				return title
			}
		}
	}
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// extractTags collects #tag tokens from the document body, deduplicated in
// first-seen order and lowercased.
func extractTags(body string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, m := range tagPattern.FindAllStringSubmatch(body, -1) {
		t := strings.ToLower(m[2])
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

func filterCards(cards []model.Card, keep func(model.Card) bool) []model.Card {
	out := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
