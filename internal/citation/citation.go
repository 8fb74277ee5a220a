// Package citation defines the citation edge: a directed link from one
// source record to a target work, carrying per-supplier OCI assertions.
package citation

import (
	"errors"
	"fmt"

	"github.com/matsen/citelink/internal/oci"
	"github.com/matsen/citelink/internal/record"
)

// Citation is a directed edge from a source record to a target work. The
// target item is owned by the citation; the source is a back-reference.
type Citation struct {
	SourceKey  string       `json:"-"`
	Target     *record.Item `json:"item"`
	Intentions []string     `json:"intentions,omitempty"` // CiTO intention names
	LinkedKey  string       `json:"linkedKey,omitempty"`  // Local record the target resolves to
	OCIs       []OCI        `json:"-"`                    // Persisted as raw codes, see payload.go
}

// OCI is one identifier assertion: a claim that a specific supplier's
// registry links this citation's endpoints. Valid is always recomputed from
// the endpoints, never trusted from storage.
type OCI struct {
	CitingID string `json:"citingId"`
	CitedID  string `json:"citedId"`
	IDType   string `json:"idType"` // doi, qid, occ
	Code     string `json:"oci"`
	Supplier string `json:"supplier"`
	Valid    bool   `json:"valid"`
}

// ErrMissingIdentifier indicates an endpoint lacks the identifier kind the
// supplier requires, so no assertion can be built.
var ErrMissingIdentifier = errors.New("endpoint identifier missing")

// New creates a citation from source to a target description.
func New(source *record.Item, target *record.Item) *Citation {
	return &Citation{SourceKey: source.Key, Target: target}
}

// AddOCI encodes a fresh assertion for the named supplier from the current
// source and target identifiers and attaches it, replacing any existing
// assertion for the same supplier.
func (c *Citation) AddOCI(source *record.Item, supplier string) error {
	sup, err := oci.LookupSupplier(supplier)
	if err != nil {
		return err
	}

	citing := source.Identifier(string(sup.Kind))
	cited := c.Target.Identifier(string(sup.Kind))
	if citing == "" || cited == "" {
		return fmt.Errorf("%w: supplier %s needs a %s on both endpoints",
			ErrMissingIdentifier, sup.Name, sup.Kind)
	}

	code, err := oci.Encode(sup.Name, citing, cited)
	if err != nil {
		return err
	}

	assertion := OCI{
		CitingID: citing,
		CitedID:  cited,
		IDType:   string(sup.Kind),
		Code:     code,
		Supplier: sup.Name,
		Valid:    true,
	}

	for i := range c.OCIs {
		if c.OCIs[i].Supplier == sup.Name {
			c.OCIs[i] = assertion
			return nil
		}
	}
	c.OCIs = append(c.OCIs, assertion)
	return nil
}

// RemoveOCI drops the assertion for the named supplier, if present.
func (c *Citation) RemoveOCI(supplier string) {
	for i := range c.OCIs {
		if c.OCIs[i].Supplier == supplier {
			c.OCIs = append(c.OCIs[:i], c.OCIs[i+1:]...)
			return
		}
	}
}

// GetOCI returns the assertion for the named supplier, or nil.
func (c *Citation) GetOCI(supplier string) *OCI {
	for i := range c.OCIs {
		if c.OCIs[i].Supplier == supplier {
			return &c.OCIs[i]
		}
	}
	return nil
}

// Revalidate recomputes every assertion's Valid flag against the current
// source and target identifiers. An assertion is valid iff re-encoding the
// pair reproduces its stored code exactly.
func (c *Citation) Revalidate(source *record.Item) {
	for i := range c.OCIs {
		a := &c.OCIs[i]
		a.Valid = false

		citing := source.Identifier(a.IDType)
		cited := c.Target.Identifier(a.IDType)
		if citing == "" || cited == "" {
			continue
		}
		code, err := oci.Encode(a.Supplier, citing, cited)
		if err != nil {
			continue
		}
		a.Valid = code == a.Code
	}
}

// TargetQID returns the target's knowledge-base identifier, or "".
func (c *Citation) TargetQID() string {
	return c.Target.QID()
}
