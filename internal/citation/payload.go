package citation

import (
	"encoding/json"
	"fmt"

	"github.com/matsen/citelink/internal/oci"
	"github.com/matsen/citelink/internal/record"
)

// payload is the persisted form of one citation. The target item is stored
// without its version; assertions are stored as raw OCI codes only and
// reconstructed (and revalidated) on load.
type payload struct {
	Item       record.Item `json:"item"`
	Intentions []string    `json:"intentions,omitempty"`
	OCIs       []string    `json:"ocis"`
	LinkedKey  string      `json:"linkedKey,omitempty"`
}

// Quarantined is a citation payload that failed to parse. Corrupt entries
// are set aside rather than failing the whole load.
type Quarantined struct {
	Raw   json.RawMessage
	Index int
	Err   error
}

// MarshalList serializes a citation list to its persisted form.
func MarshalList(citations []*Citation) ([]byte, error) {
	out := make([]payload, 0, len(citations))
	for _, c := range citations {
		target := *c.Target
		target.Version = 0
		p := payload{
			Item:       target,
			Intentions: c.Intentions,
			LinkedKey:  c.LinkedKey,
			OCIs:       make([]string, 0, len(c.OCIs)),
		}
		for _, a := range c.OCIs {
			p.OCIs = append(p.OCIs, a.Code)
		}
		out = append(out, p)
	}
	return json.Marshal(out)
}

// UnmarshalList parses a persisted citation list for the given source item.
// Entries that fail to parse are quarantined; assertion validity is
// recomputed against the current endpoint identifiers.
func UnmarshalList(data []byte, source *record.Item) ([]*Citation, []Quarantined, error) {
	if len(data) == 0 {
		return nil, nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("citation list for %s: %w", source.Key, err)
	}

	var citations []*Citation
	var quarantined []Quarantined
	for i, raw := range raws {
		var p payload
		if err := json.Unmarshal(raw, &p); err != nil {
			quarantined = append(quarantined, Quarantined{Raw: raw, Index: i, Err: err})
			continue
		}
		if p.Item.Title == "" && p.Item.QID() == "" && p.Item.DOI == "" {
			quarantined = append(quarantined, Quarantined{
				Raw: raw, Index: i,
				Err: fmt.Errorf("target has no title and no identifier"),
			})
			continue
		}

		target := p.Item
		c := &Citation{
			SourceKey:  source.Key,
			Target:     &target,
			Intentions: p.Intentions,
			LinkedKey:  p.LinkedKey,
		}
		for _, code := range p.OCIs {
			dec, err := oci.Decode(code)
			if err != nil {
				// A stored code that no longer decodes is kept as an invalid
				// assertion under its raw form so the user can see and fix it.
				c.OCIs = append(c.OCIs, OCI{Code: code})
				continue
			}
			c.OCIs = append(c.OCIs, OCI{
				CitingID: dec.Citing,
				CitedID:  dec.Cited,
				IDType:   string(dec.Kind),
				Code:     code,
				Supplier: dec.Supplier,
			})
		}
		c.Revalidate(source)
		citations = append(citations, c)
	}

	return citations, quarantined, nil
}
