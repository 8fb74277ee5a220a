package oci

import (
	"fmt"
	"regexp"
	"strings"
)

// IDKind identifies the kind of identifier a supplier assigns to works.
type IDKind string

const (
	KindDOI IDKind = "doi"
	KindQID IDKind = "qid"
	KindOCC IDKind = "occ"
)

// Supplier is one entry in the fixed OCI supplier registry.
type Supplier struct {
	Name   string
	Prefix string // 3-digit numeric prefix assigned by OpenCitations
	Kind   IDKind
}

// suppliers is the fixed registry. Loaded once, never mutated at runtime.
var suppliers = []Supplier{
	{Name: "crossref", Prefix: "020", Kind: KindDOI},
	{Name: "datacite", Prefix: "030", Kind: KindDOI},
	{Name: "occ", Prefix: "040", Kind: KindOCC},
	{Name: "wikidata", Prefix: "042", Kind: KindQID},
}

var (
	suppliersByName   = make(map[string]Supplier)
	suppliersByPrefix = make(map[string]Supplier)
)

func init() {
	for _, s := range suppliers {
		suppliersByName[s.Name] = s
		suppliersByPrefix[s.Prefix] = s
	}
}

// Suppliers returns the registered suppliers in registry order.
func Suppliers() []Supplier {
	out := make([]Supplier, len(suppliers))
	copy(out, suppliers)
	return out
}

// LookupSupplier finds a supplier by name.
func LookupSupplier(name string) (Supplier, error) {
	s, ok := suppliersByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Supplier{}, fmt.Errorf("%w: %q", ErrUnsupportedSupplier, name)
	}
	return s, nil
}

// kindPolicy bundles the per-kind normalize/encode/decode behavior so the
// codec selects it once per supplier lookup instead of branching on kind at
// every call site.
type kindPolicy struct {
	// normalize validates the raw identifier and strips its fixed prefix,
	// returning the part that gets encoded.
	normalize func(raw string) (string, error)
	// encode turns the normalized identifier into a digit string.
	encode func(norm string) (string, error)
	// decode inverts encode and re-attaches the fixed prefix.
	decode func(digits string) (string, error)
}

var (
	doiShape = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	qidShape = regexp.MustCompile(`^Q[0-9]+$`)
	occShape = regexp.MustCompile(`^[0-9]+$`)
)

var kindPolicies = map[IDKind]kindPolicy{
	KindDOI: {
		normalize: func(raw string) (string, error) {
			// DOI names are case-insensitive; canonical form is lowercase.
			raw = strings.ToLower(strings.TrimSpace(raw))
			if !doiShape.MatchString(raw) {
				return "", fmt.Errorf("%w: %q is not a DOI", ErrMalformedIdentifier, raw)
			}
			return strings.TrimPrefix(raw, "10."), nil
		},
		encode: encodeDOIChars,
		decode: func(digits string) (string, error) {
			suffix, err := decodeDOIChars(digits)
			if err != nil {
				return "", err
			}
			return "10." + suffix, nil
		},
	},
	KindQID: {
		normalize: func(raw string) (string, error) {
			raw = strings.TrimSpace(raw)
			if !qidShape.MatchString(raw) {
				return "", fmt.Errorf("%w: %q is not a QID", ErrMalformedIdentifier, raw)
			}
			return strings.TrimPrefix(raw, "Q"), nil
		},
		encode: func(norm string) (string, error) { return norm, nil },
		decode: func(digits string) (string, error) { return "Q" + digits, nil },
	},
	KindOCC: {
		normalize: func(raw string) (string, error) {
			raw = strings.TrimSpace(raw)
			if !occShape.MatchString(raw) {
				return "", fmt.Errorf("%w: %q is not an OCC identifier", ErrMalformedIdentifier, raw)
			}
			return raw, nil
		},
		encode: func(norm string) (string, error) { return norm, nil },
		decode: func(digits string) (string, error) { return digits, nil },
	},
}
