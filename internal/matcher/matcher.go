// Package matcher builds multi-key candidate indices over a library
// snapshot and answers which existing records plausibly describe the same
// work as a candidate record.
package matcher

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/matsen/citelink/internal/record"
)

// ErrNotInitialized indicates FindMatches was called before Init. This is a
// programmer error, not a data condition.
var ErrNotInitialized = errors.New("matcher used before Init")

// Library is the read-only projection interface the matcher consumes,
// served by the local store. Every method takes an optional key scope;
// nil means the whole library.
type Library interface {
	// FieldValues returns key -> raw field value for items carrying the field.
	FieldValues(field string, scope []string) (map[string]string, error)
	// Titles returns key -> title for regular items (no attachments/notes).
	Titles(scope []string) (map[string]string, error)
	// Creators returns key -> ordered creator list.
	Creators(scope []string) (map[string][]record.Creator, error)
	// Dates returns key -> date field value.
	Dates(scope []string) (map[string]string, error)
}

// normCreator is the comparison form of one creator. Initial is unset (and
// HasInitial false) for single-field organizational creators.
type normCreator struct {
	Last       string
	Initial    string
	HasInitial bool
}

// Matcher holds the point-in-time indices. Immutable once built; rebuild a
// new Matcher if the underlying library changes.
type Matcher struct {
	initialized bool

	isbn   map[string][]string // canonical ISBN -> item keys
	doi    map[string][]string // canonical DOI -> item keys
	qid    map[string][]string // QID -> item keys
	titles map[string][]string // normalized title -> item keys

	creators map[string][]normCreator // item key -> creators
	years    map[string]string        // item key -> 4-digit year

	// ids caches the canonical identifiers per key for the title-bucket
	// disagreement filters.
	ids map[string]keyIdentifiers
}

type keyIdentifiers struct {
	ISBN string
	DOI  string
	QID  string
}

// New returns an empty, uninitialized Matcher.
func New() *Matcher {
	return &Matcher{
		isbn:     make(map[string][]string),
		doi:      make(map[string][]string),
		qid:      make(map[string][]string),
		titles:   make(map[string][]string),
		creators: make(map[string][]normCreator),
		years:    make(map[string]string),
		ids:      make(map[string]keyIdentifiers),
	}
}

// Init builds the five indices from the library, restricted to scope when
// scope is non-nil.
func (m *Matcher) Init(lib Library, scope []string) error {
	isbns, err := lib.FieldValues(record.FieldISBN, scope)
	if err != nil {
		return fmt.Errorf("scanning ISBNs: %w", err)
	}
	for key, raw := range isbns {
		if v := CleanISBN(raw); v != "" {
			m.isbn[v] = append(m.isbn[v], key)
			ids := m.ids[key]
			ids.ISBN = v
			m.ids[key] = ids
		}
	}

	dois, err := lib.FieldValues(record.FieldDOI, scope)
	if err != nil {
		return fmt.Errorf("scanning DOIs: %w", err)
	}
	for key, raw := range dois {
		if v := CleanDOI(raw); v != "" {
			m.doi[v] = append(m.doi[v], key)
			ids := m.ids[key]
			ids.DOI = v
			m.ids[key] = ids
		}
	}

	extras, err := lib.FieldValues(record.FieldExtra, scope)
	if err != nil {
		return fmt.Errorf("scanning extra fields: %w", err)
	}
	for key, raw := range extras {
		if v := record.ExtractQID(raw); v != "" {
			m.qid[v] = append(m.qid[v], key)
			ids := m.ids[key]
			ids.QID = v
			m.ids[key] = ids
		}
	}

	titles, err := lib.Titles(scope)
	if err != nil {
		return fmt.Errorf("scanning titles: %w", err)
	}
	for key, raw := range titles {
		if v := NormalizeTitle(raw); v != "" {
			m.titles[v] = append(m.titles[v], key)
		}
	}

	creators, err := lib.Creators(scope)
	if err != nil {
		return fmt.Errorf("scanning creators: %w", err)
	}
	for key, list := range creators {
		m.creators[key] = normalizeCreators(list)
	}

	dates, err := lib.Dates(scope)
	if err != nil {
		return fmt.Errorf("scanning dates: %w", err)
	}
	for key, date := range dates {
		if len(date) >= 4 {
			m.years[key] = date[:4]
		}
	}

	m.initialized = true
	return nil
}

func normalizeCreators(list []record.Creator) []normCreator {
	out := make([]normCreator, 0, len(list))
	for _, c := range list {
		nc := normCreator{Last: NormalizeName(c.Last)}
		if !c.Single {
			nc.Initial = firstInitial(c.First)
			nc.HasInitial = true
		}
		out = append(out, nc)
	}
	return out
}

// FindMatches returns the keys of records plausibly describing the same
// work as the candidate: exact identifier matches first, then records
// sharing the normalized title that survive the disagreement filters.
func (m *Matcher) FindMatches(cand *record.Item) ([]string, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	seen := make(map[string]bool)

	// Identifier matches are authoritative; they bypass every filter.
	if v := CleanISBN(cand.ISBN); v != "" {
		for _, key := range m.isbn[v] {
			seen[key] = true
		}
	}
	if v := CleanDOI(cand.DOI); v != "" {
		for _, key := range m.doi[v] {
			seen[key] = true
		}
	}
	if v := cand.QID(); v != "" {
		for _, key := range m.qid[v] {
			seen[key] = true
		}
	}

	// Title matches are heuristic corroboration: reject a bucket entry on
	// any identifier disagreement, a year gap over one, or creator mismatch.
	if title := NormalizeTitle(cand.Title); title != "" {
		candCreators := normalizeCreators(cand.Creators)
		for _, key := range m.titles[title] {
			if seen[key] {
				continue
			}
			if m.disagrees(key, cand, candCreators) {
				continue
			}
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sortKeys(keys)
	return keys, nil
}

// disagrees applies the title-bucket rejection filters between an indexed
// record and the candidate.
func (m *Matcher) disagrees(key string, cand *record.Item, candCreators []normCreator) bool {
	ids := m.ids[key]
	if v := CleanISBN(cand.ISBN); v != "" && ids.ISBN != "" && ids.ISBN != v {
		return true
	}
	if v := CleanDOI(cand.DOI); v != "" && ids.DOI != "" && ids.DOI != v {
		return true
	}
	if v := cand.QID(); v != "" && ids.QID != "" && ids.QID != v {
		return true
	}
	if y := cand.Year(); y != "" {
		if other, ok := m.years[key]; ok && yearGap(y, other) > 1 {
			return true
		}
	}
	return !creatorsMatch(candCreators, m.creators[key])
}

// creatorsMatch reports whether at least one cross-pair agrees on both the
// normalized last name and the first initial.
func creatorsMatch(a, b []normCreator) bool {
	for _, ca := range a {
		for _, cb := range b {
			if ca.Last == "" || ca.Last != cb.Last {
				continue
			}
			if ca.HasInitial == cb.HasInitial && ca.Initial == cb.Initial {
				return true
			}
		}
	}
	return false
}

func yearGap(a, b string) int {
	ya, errA := strconv.Atoi(a)
	yb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return 0
	}
	if ya > yb {
		return ya - yb
	}
	return yb - ya
}

// sortKeys orders keys numerically when both parse as integers, falling
// back to lexical order for non-numeric store keys.
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		if errI == nil && errJ == nil {
			return ni < nj
		}
		return strings.Compare(keys[i], keys[j]) < 0
	})
}
