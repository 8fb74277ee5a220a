package store

import (
	"database/sql"
	"fmt"

	"github.com/matsen/citelink/internal/citation"
	"github.com/matsen/citelink/internal/record"
)

// Citations loads and parses the source item's citation list. Corrupt
// entries come back quarantined rather than failing the load.
func (s *Store) Citations(source *record.Item) ([]*citation.Citation, []citation.Quarantined, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM citations WHERE item_key = ?`, source.Key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading citations of %s: %w", source.Key, err)
	}
	return citation.UnmarshalList([]byte(payload), source)
}

// SetCitations serializes and stores the item's citation list.
func (s *Store) SetCitations(key string, citations []*citation.Citation) error {
	data, err := citation.MarshalList(citations)
	if err != nil {
		return fmt.Errorf("serializing citations of %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO citations (item_key, payload) VALUES (?, ?)
		ON CONFLICT(item_key) DO UPDATE SET payload = excluded.payload`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("storing citations of %s: %w", key, err)
	}
	return nil
}

// CreateNote attaches a note to an item and returns its id. Notes serve as
// alternate citation storage for stores that cannot hold the payload inline.
func (s *Store) CreateNote(itemKey, content string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO notes (item_key, content) VALUES (?, ?)`, itemKey, content)
	if err != nil {
		return 0, fmt.Errorf("creating note on %s: %w", itemKey, err)
	}
	return res.LastInsertId()
}

// DeleteNote removes a note by id.
func (s *Store) DeleteNote(id int64) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	return err
}

// Notes lists an item's notes as id -> content.
func (s *Store) Notes(itemKey string) (map[int64]string, error) {
	rows, err := s.db.Query(`SELECT id, content FROM notes WHERE item_key = ? ORDER BY id`, itemKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, err
		}
		out[id] = content
	}
	return out, rows.Err()
}
