package oci

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		supplier string
		citing   string
		cited    string
		kind     IDKind
	}{
		{"wikidata", "Q12345", "Q678", KindQID},
		{"crossref", "10.1234/abc-def.1", "10.5678/xyz_(2)", KindDOI},
		{"datacite", "10.5061/dryad.123", "10.1000/182", KindDOI},
		{"occ", "1", "18", KindOCC},
	}

	for _, tt := range tests {
		code, err := Encode(tt.supplier, tt.citing, tt.cited)
		if err != nil {
			t.Fatalf("Encode(%s, %s, %s): %v", tt.supplier, tt.citing, tt.cited, err)
		}

		dec, err := Decode(code)
		if err != nil {
			t.Fatalf("Decode(%s): %v", code, err)
		}
		if dec.Citing != tt.citing {
			t.Errorf("citing: got %s, want %s", dec.Citing, tt.citing)
		}
		if dec.Cited != tt.cited {
			t.Errorf("cited: got %s, want %s", dec.Cited, tt.cited)
		}
		if dec.Kind != tt.kind {
			t.Errorf("kind: got %s, want %s", dec.Kind, tt.kind)
		}
		if dec.Supplier != tt.supplier {
			t.Errorf("supplier: got %s, want %s", dec.Supplier, tt.supplier)
		}
	}
}

func TestEncodeCodeShape(t *testing.T) {
	code, err := Encode("wikidata", "Q42", "Q7")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if code != "04242-0427" {
		t.Errorf("got %s, want 04242-0427", code)
	}
}

func TestEncodeUnsupportedSupplier(t *testing.T) {
	_, err := Encode("scopus", "Q1", "Q2")
	if !errors.Is(err, ErrUnsupportedSupplier) {
		t.Errorf("expected ErrUnsupportedSupplier, got %v", err)
	}
}

func TestEncodeMalformedIdentifier(t *testing.T) {
	tests := []struct {
		supplier string
		citing   string
		cited    string
	}{
		{"wikidata", "123", "Q2"},      // missing Q
		{"wikidata", "Q1", "Q2x"},      // trailing junk
		{"crossref", "11.1234/a", "10.1234/b"}, // bad DOI directory
		{"crossref", "10.1234/a", "10.12/b"},   // registrant too short
		{"occ", "12a", "34"},
	}
	for _, tt := range tests {
		_, err := Encode(tt.supplier, tt.citing, tt.cited)
		if !errors.Is(err, ErrMalformedIdentifier) {
			t.Errorf("Encode(%s, %s, %s): expected ErrMalformedIdentifier, got %v",
				tt.supplier, tt.citing, tt.cited, err)
		}
	}
}

func TestEncodeDOICharOutsideTable(t *testing.T) {
	_, err := Encode("crossref", "10.1234/ab#cd", "10.1234/ok")
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Errorf("expected ErrMalformedIdentifier for '#', got %v", err)
	}
}

func TestDecodeMalformedShape(t *testing.T) {
	for _, code := range []string{"", "abc", "04242", "04242-", "-0427", "042420427"} {
		if _, err := Decode(code); !errors.Is(err, ErrMalformedIdentifier) {
			t.Errorf("Decode(%q): expected ErrMalformedIdentifier, got %v", code, err)
		}
	}
}

func TestDecodePrefixMismatch(t *testing.T) {
	// Both prefixes individually valid, but an OCI references one supplier.
	_, err := Decode("04242-0207")
	if !errors.Is(err, ErrPrefixMismatch) {
		t.Errorf("expected ErrPrefixMismatch, got %v", err)
	}
}

func TestDecodeUnknownPrefix(t *testing.T) {
	_, err := Decode("99942-9997")
	if !errors.Is(err, ErrUnsupportedSupplier) {
		t.Errorf("expected ErrUnsupportedSupplier, got %v", err)
	}
}

func TestDecodeTrailingIncompleteGroup(t *testing.T) {
	// Crossref is DOI-kind: digits decode as 2-digit groups, so an odd
	// count leaves a dangling half group.
	_, err := Decode("020010203-02001020")
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Errorf("expected ErrMalformedIdentifier for odd group, got %v", err)
	}
}

func TestEncodeLowercasesDOI(t *testing.T) {
	upper, err := Encode("crossref", "10.1234/ABC", "10.1234/DEF")
	if err != nil {
		t.Fatalf("Encode upper: %v", err)
	}
	lower, err := Encode("crossref", "10.1234/abc", "10.1234/def")
	if err != nil {
		t.Fatalf("Encode lower: %v", err)
	}
	if upper != lower {
		t.Errorf("case should not affect DOI encoding: %s vs %s", upper, lower)
	}
}

func TestResolveURL(t *testing.T) {
	url, err := ResolveURL("04242-0427")
	if err != nil {
		t.Fatalf("ResolveURL: %v", err)
	}
	if !strings.HasPrefix(url, ResolveBaseURL) || !strings.HasSuffix(url, "04242-0427") {
		t.Errorf("unexpected URL: %s", url)
	}

	if _, err := ResolveURL("04242-0207"); err == nil {
		t.Error("expected error for mismatched prefixes")
	}
}

func TestLookupSupplierCaseInsensitive(t *testing.T) {
	s, err := LookupSupplier(" Wikidata ")
	if err != nil {
		t.Fatalf("LookupSupplier: %v", err)
	}
	if s.Prefix != "042" || s.Kind != KindQID {
		t.Errorf("unexpected supplier: %+v", s)
	}
}
