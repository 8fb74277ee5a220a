// Package store implements the SQLite-backed local item library: records,
// creators, serialized citation lists, note attachments, and the batched
// projection queries the matcher consumes.
package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/matsen/citelink/internal/record"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding one library.
type Store struct {
	db *sql.DB
}

// Open opens or creates a library database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS items (
			key TEXT PRIMARY KEY,
			item_type TEXT NOT NULL,
			title TEXT,
			doi TEXT,
			isbn TEXT,
			url TEXT,
			date TEXT,
			extra TEXT,
			version INTEGER NOT NULL DEFAULT 0,
			date_modified TEXT
		);

		CREATE TABLE IF NOT EXISTS creators (
			item_key TEXT NOT NULL REFERENCES items(key) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			first TEXT,
			last TEXT NOT NULL,
			single INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (item_key, ord)
		);

		CREATE TABLE IF NOT EXISTS citations (
			item_key TEXT PRIMARY KEY REFERENCES items(key) ON DELETE CASCADE,
			payload TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_key TEXT NOT NULL REFERENCES items(key) ON DELETE CASCADE,
			content TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_doi ON items(doi) WHERE doi IS NOT NULL AND doi != '';
	`
	_, err := db.Exec(schema)
	return err
}

const selectItemFields = `key, item_type, title, doi, isbn, url, date, extra, version`

// AddItem inserts a new item. An empty key gets a generated one.
func (s *Store) AddItem(it *record.Item) error {
	if it.Key == "" {
		it.Key = genKey()
	}
	it.Version = 1

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO items (key, item_type, title, doi, isbn, url, date, extra, version, date_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Key, it.ItemType, it.Title, it.DOI, it.ISBN, it.URL, it.Date, it.Extra,
		it.Version, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", it.Key, err)
	}
	if err := writeCreators(tx, it); err != nil {
		return err
	}
	return tx.Commit()
}

// Item fetches an item by key. Returns nil when the key does not exist.
func (s *Store) Item(key string) (*record.Item, error) {
	row := s.db.QueryRow(`SELECT `+selectItemFields+` FROM items WHERE key = ?`, key)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching item %s: %w", key, err)
	}

	rows, err := s.db.Query(`SELECT first, last, single FROM creators WHERE item_key = ? ORDER BY ord`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c record.Creator
		var single int
		if err := rows.Scan(&c.First, &c.Last, &single); err != nil {
			return nil, err
		}
		c.Single = single != 0
		it.Creators = append(it.Creators, c)
	}
	return it, rows.Err()
}

// SaveItem writes the item's current state, bumping its version. Pass
// skipDateModified to leave last-modified bookkeeping untouched (used when
// a sync writes derived data rather than user edits).
func (s *Store) SaveItem(it *record.Item, skipDateModified bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	it.Version++
	if skipDateModified {
		_, err = tx.Exec(`
			UPDATE items SET item_type=?, title=?, doi=?, isbn=?, url=?, date=?, extra=?, version=?
			WHERE key=?`,
			it.ItemType, it.Title, it.DOI, it.ISBN, it.URL, it.Date, it.Extra, it.Version, it.Key)
	} else {
		_, err = tx.Exec(`
			UPDATE items SET item_type=?, title=?, doi=?, isbn=?, url=?, date=?, extra=?, version=?, date_modified=?
			WHERE key=?`,
			it.ItemType, it.Title, it.DOI, it.ISBN, it.URL, it.Date, it.Extra, it.Version, nowUTC(), it.Key)
	}
	if err != nil {
		it.Version--
		return fmt.Errorf("saving item %s: %w", it.Key, err)
	}

	if _, err := tx.Exec(`DELETE FROM creators WHERE item_key = ?`, it.Key); err != nil {
		it.Version--
		return err
	}
	if err := writeCreators(tx, it); err != nil {
		it.Version--
		return err
	}
	if err := tx.Commit(); err != nil {
		it.Version--
		return err
	}
	return nil
}

// DeleteItem removes an item and its dependents.
func (s *Store) DeleteItem(key string) error {
	for _, stmt := range []string{
		`DELETE FROM creators WHERE item_key = ?`,
		`DELETE FROM citations WHERE item_key = ?`,
		`DELETE FROM notes WHERE item_key = ?`,
		`DELETE FROM items WHERE key = ?`,
	} {
		if _, err := s.db.Exec(stmt, key); err != nil {
			return fmt.Errorf("deleting item %s: %w", key, err)
		}
	}
	return nil
}

// Keys lists all item keys, ordered for stable output.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM items ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func writeCreators(tx *sql.Tx, it *record.Item) error {
	for i, c := range it.Creators {
		single := 0
		if c.Single {
			single = 1
		}
		if _, err := tx.Exec(`
			INSERT INTO creators (item_key, ord, first, last, single) VALUES (?, ?, ?, ?, ?)`,
			it.Key, i, c.First, c.Last, single); err != nil {
			return fmt.Errorf("writing creator %d of %s: %w", i, it.Key, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*record.Item, error) {
	var it record.Item
	err := row.Scan(&it.Key, &it.ItemType, &it.Title, &it.DOI, &it.ISBN,
		&it.URL, &it.Date, &it.Extra, &it.Version)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

const keyAlphabet = "23456789ABCDEFGHIJKLMNPQRSTUVWXYZ"

// genKey produces an 8-character store key.
func genKey() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Extremely unlikely; fall back to a timestamp-derived key.
		return fmt.Sprintf("K%07d", time.Now().UnixNano()%10000000)
	}
	var b strings.Builder
	for _, v := range buf {
		b.WriteByte(keyAlphabet[int(v)%len(keyAlphabet)])
	}
	return b.String()
}
