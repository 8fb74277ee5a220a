package store

import (
	"fmt"
	"strings"

	"github.com/matsen/citelink/internal/record"
)

// The projection queries below implement the matcher.Library interface:
// batched, read-only lookups across an optional key scope.

var fieldColumns = map[string]string{
	record.FieldTitle: "title",
	record.FieldDOI:   "doi",
	record.FieldISBN:  "isbn",
	record.FieldURL:   "url",
	record.FieldDate:  "date",
	record.FieldExtra: "extra",
}

// FieldValues returns key -> value for every item whose field is non-empty.
func (s *Store) FieldValues(field string, scope []string) (map[string]string, error) {
	col, ok := fieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	query := `SELECT key, ` + col + ` FROM items WHERE ` + col + ` != ''`
	query, args := applyScope(query, scope)
	return s.stringProjection(query, args)
}

// Titles returns key -> title for regular items only.
func (s *Store) Titles(scope []string) (map[string]string, error) {
	query := `SELECT key, title FROM items
		WHERE title != '' AND item_type NOT IN ('attachment', 'note')`
	query, args := applyScope(query, scope)
	return s.stringProjection(query, args)
}

// Dates returns key -> date for items carrying one.
func (s *Store) Dates(scope []string) (map[string]string, error) {
	return s.FieldValues(record.FieldDate, scope)
}

// Creators returns key -> ordered creator list.
func (s *Store) Creators(scope []string) (map[string][]record.Creator, error) {
	query := `SELECT item_key, first, last, single FROM creators`
	var args []any
	if len(scope) > 0 {
		query += ` WHERE item_key IN (` + placeholders(len(scope)) + `)`
		args = scopeArgs(scope)
	}
	query += ` ORDER BY item_key, ord`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]record.Creator)
	for rows.Next() {
		var key string
		var c record.Creator
		var single int
		if err := rows.Scan(&key, &c.First, &c.Last, &single); err != nil {
			return nil, err
		}
		c.Single = single != 0
		out[key] = append(out[key], c)
	}
	return out, rows.Err()
}

func (s *Store) stringProjection(query string, args []any) (map[string]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

// applyScope restricts a projection to the given keys. A nil or empty
// scope means unrestricted; an empty IN () would not even parse.
func applyScope(query string, scope []string) (string, []any) {
	if len(scope) == 0 {
		return query, nil
	}
	return query + ` AND key IN (` + placeholders(len(scope)) + `)`, scopeArgs(scope)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scopeArgs(scope []string) []any {
	args := make([]any, len(scope))
	for i, k := range scope {
		args[i] = k
	}
	return args
}
