// Package record defines the core domain types for bibliographic records.
package record

import (
	"fmt"
	"regexp"
	"strings"
)

// Item represents one bibliographic record in the local store.
type Item struct {
	// Identity
	Key      string `json:"key"`       // Stable store key
	ItemType string `json:"item_type"` // book, journalArticle, note, attachment, ...

	// Metadata
	Title    string    `json:"title"`
	Creators []Creator `json:"creators,omitempty"`

	// Identifiers
	DOI  string `json:"doi,omitempty"`
	ISBN string `json:"isbn,omitempty"`
	URL  string `json:"url,omitempty"`

	// Date is the publication date, ISO-ish ("2023-05-01", "2023").
	Date string `json:"date,omitempty"`

	// Extra holds line-oriented structured metadata ("qid: Q42").
	Extra string `json:"extra,omitempty"`

	// Version counts saves, used for optimistic staleness checks.
	Version int `json:"version,omitempty"`
}

// Creator is one author/editor entry. Single-field creators (organizations)
// carry the whole name in Last with Single set.
type Creator struct {
	First  string `json:"first,omitempty"`
	Last   string `json:"last"`
	Single bool   `json:"single,omitempty"`
}

// Field names accepted by Field/SetField.
const (
	FieldTitle = "title"
	FieldDOI   = "doi"
	FieldISBN  = "isbn"
	FieldURL   = "url"
	FieldDate  = "date"
	FieldExtra = "extra"
)

// Field returns the value of a typed metadata field by name.
func (it *Item) Field(name string) (string, error) {
	switch name {
	case FieldTitle:
		return it.Title, nil
	case FieldDOI:
		return it.DOI, nil
	case FieldISBN:
		return it.ISBN, nil
	case FieldURL:
		return it.URL, nil
	case FieldDate:
		return it.Date, nil
	case FieldExtra:
		return it.Extra, nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// SetField sets a typed metadata field by name.
func (it *Item) SetField(name, value string) error {
	switch name {
	case FieldTitle:
		it.Title = value
	case FieldDOI:
		it.DOI = value
	case FieldISBN:
		it.ISBN = value
	case FieldURL:
		it.URL = value
	case FieldDate:
		it.Date = value
	case FieldExtra:
		it.Extra = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// IsRegular reports whether the item is a citable record rather than an
// attachment or note.
func (it *Item) IsRegular() bool {
	return it.ItemType != "attachment" && it.ItemType != "note"
}

// Year returns the four-digit year portion of the date field, or "" when
// the date is absent or too short.
func (it *Item) Year() string {
	if len(it.Date) < 4 {
		return ""
	}
	return it.Date[:4]
}

// qidLine matches a "qid: Qnnn" line in the extra field. First match wins.
var qidLine = regexp.MustCompile(`(?mi)^\s*qid:\s*(Q[0-9]+)\s*$`)

// QID returns the knowledge-base entity identifier recorded in the extra
// field, or "" when the item has none.
func (it *Item) QID() string {
	return ExtractQID(it.Extra)
}

// ExtractQID pulls the first qid line out of an extra-field value.
func ExtractQID(extra string) string {
	m := qidLine.FindStringSubmatch(extra)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// SetQID records the knowledge-base entity identifier in the extra field,
// replacing any existing qid line.
func (it *Item) SetQID(qid string) {
	line := "qid: " + qid
	if qidLine.MatchString(it.Extra) {
		it.Extra = qidLine.ReplaceAllString(it.Extra, line)
		return
	}
	if it.Extra == "" {
		it.Extra = line
		return
	}
	it.Extra = strings.TrimRight(it.Extra, "\n") + "\n" + line
}

// Identifier returns the item's identifier of the given kind ("doi", "qid",
// "occ"), or "" when absent. OCC identifiers are not stored on items.
func (it *Item) Identifier(kind string) string {
	switch kind {
	case "doi":
		return it.DOI
	case "qid":
		return it.QID()
	}
	return ""
}
