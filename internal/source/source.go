// Package source resolves card-set descriptors into ordered card lists.
// The layout/render core consumes Source as a black box: it never knows
// whether cards came from a directory scan or the SQLite index.
package source

import (
	"context"

	"cardwall-cli/internal/model"
)

// Source yields the up-to-date cards for a card-set descriptor.
type Source interface {
	Resolve(ctx context.Context, set model.CardSet) ([]model.Card, error)
}
