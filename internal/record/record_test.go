package record

import "testing"

func TestQIDExtraction(t *testing.T) {
	tests := []struct {
		extra string
		want  string
	}{
		{"qid: Q42", "Q42"},
		{"QID: q99", "Q99"},
		{"note line\nqid: Q1\nqid: Q2", "Q1"}, // first match only
		{"pmid: 123", ""},
		{"", ""},
		{"something qid: Q5", ""}, // not at line start
	}
	for _, tt := range tests {
		it := Item{Extra: tt.extra}
		if got := it.QID(); got != tt.want {
			t.Errorf("QID(%q): got %q, want %q", tt.extra, got, tt.want)
		}
	}
}

func TestSetQID(t *testing.T) {
	it := Item{}
	it.SetQID("Q42")
	if it.QID() != "Q42" {
		t.Fatalf("expected Q42, got %q", it.QID())
	}

	it.SetQID("Q43")
	if it.QID() != "Q43" {
		t.Errorf("expected replacement to Q43, got %q", it.QID())
	}
	if it.Extra != "qid: Q43" {
		t.Errorf("expected single qid line, got %q", it.Extra)
	}

	it2 := Item{Extra: "pmid: 123"}
	it2.SetQID("Q7")
	if it2.Extra != "pmid: 123\nqid: Q7" {
		t.Errorf("expected appended qid line, got %q", it2.Extra)
	}
}

func TestYear(t *testing.T) {
	if y := (&Item{Date: "2023-05-01"}).Year(); y != "2023" {
		t.Errorf("got %q", y)
	}
	if y := (&Item{Date: "99"}).Year(); y != "" {
		t.Errorf("expected empty year for short date, got %q", y)
	}
}

func TestFieldAccess(t *testing.T) {
	it := Item{}
	if err := it.SetField(FieldDOI, "10.1234/x"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	v, err := it.Field(FieldDOI)
	if err != nil || v != "10.1234/x" {
		t.Errorf("Field: got %q, %v", v, err)
	}
	if _, err := it.Field("venue"); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := it.SetField("venue", "x"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestIsRegular(t *testing.T) {
	if (&Item{ItemType: "attachment"}).IsRegular() {
		t.Error("attachment should not be regular")
	}
	if !(&Item{ItemType: "book"}).IsRegular() {
		t.Error("book should be regular")
	}
}
