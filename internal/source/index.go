package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cardwall-cli/internal/model"
)

const indexSchemaSQL = `
CREATE TABLE IF NOT EXISTS cards (
	path       TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	mtime      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cards_mtime ON cards(mtime);
`

// Index is a SQLite cache of card metadata so tag and search card sets
// resolve without re-reading every note body from disk.
type Index struct {
	conn *sql.DB
}

// OpenIndex opens (or creates) the index database and applies the schema.
func OpenIndex(path string) (*Index, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if _, err := conn.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index pragmas: %w", err)
	}
	if _, err := conn.Exec(indexSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply index schema: %w", err)
	}
	return &Index{conn: conn}, nil
}

func (ix *Index) Close() error { return ix.conn.Close() }

// Rebuild replaces the whole index with cards in one transaction.
func (ix *Index) Rebuild(ctx context.Context, cards []model.Card) error {
	tx, err := ix.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return err
	}
	for _, c := range cards {
		if err := upsertTx(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Upsert inserts or refreshes one card row.
func (ix *Index) Upsert(ctx context.Context, c model.Card) error {
	tx, err := ix.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := upsertTx(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertTx(ctx context.Context, tx *sql.Tx, c model.Card) error {
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cards (path, title, body, tags, mtime)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			tags = excluded.tags,
			mtime = excluded.mtime`,
		c.Path, c.Title, c.Body, string(tags), c.ModTime.UnixNano())
	return err
}

// Delete removes a card row; deleting an unknown path is a no-op.
func (ix *Index) Delete(ctx context.Context, path string) error {
	_, err := ix.conn.ExecContext(ctx, `DELETE FROM cards WHERE path = ?`, path)
	return err
}

// Count returns the number of indexed cards.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := ix.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

// Resolve implements Source against the index. Folder sets match by path
// prefix, tag sets by tag membership, search sets by case-insensitive
// substring over title and body.
func (ix *Index) Resolve(ctx context.Context, set model.CardSet) ([]model.Card, error) {
	switch set.Kind {
	case model.CardSetFolder, "":
		prefix := strings.Trim(strings.TrimSpace(set.Value), "/")
		if prefix == "" {
			return ix.query(ctx, `SELECT path, title, body, tags, mtime FROM cards ORDER BY path`)
		}
		return ix.query(ctx,
			`SELECT path, title, body, tags, mtime FROM cards WHERE path LIKE ? ORDER BY path`,
			prefix+"/%")
	case model.CardSetTag:
		cards, err := ix.query(ctx, `SELECT path, title, body, tags, mtime FROM cards ORDER BY path`)
		if err != nil {
			return nil, err
		}
		return filterCards(cards, func(c model.Card) bool { return c.HasTag(set.Value) }), nil
	case model.CardSetSearch:
		q := "%" + strings.ToLower(strings.TrimSpace(set.Value)) + "%"
		return ix.query(ctx,
			`SELECT path, title, body, tags, mtime FROM cards
			 WHERE lower(title) LIKE ? OR lower(body) LIKE ? ORDER BY path`,
			q, q)
	default:
		return nil, fmt.Errorf("unknown card set kind %q", set.Kind)
	}
}

func (ix *Index) query(ctx context.Context, q string, args ...any) ([]model.Card, error) {
	rows, err := ix.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var c model.Card
		var tags string
		var mtime int64
		if err := rows.Scan(&c.Path, &c.Title, &c.Body, &tags, &mtime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			// A corrupt tags blob degrades to an untagged card.
			c.Tags = nil
		}
		c.ModTime = time.Unix(0, mtime)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

var _ Source = (*Index)(nil)
var _ Source = (*DirSource)(nil)
