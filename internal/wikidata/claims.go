package wikidata

import (
	"encoding/json"
	"sort"
	"strings"
)

// Wikidata properties used by the citation graph.
const (
	// PropCitesWork is the "cites work" property linking a citing entity to
	// a cited one.
	PropCitesWork = "P2860"

	// PropIntention is the qualifier carrying the citation's CiTO intention.
	PropIntention = "P3712"

	// PropDOI, PropISBN13 and PropPublicationDate feed the entity-to-item
	// mapping.
	PropDOI             = "P356"
	PropISBN13          = "P212"
	PropPublicationDate = "P577"
	PropAuthorName      = "P2093"
	PropInstanceOf      = "P31"
)

// CitesWorkClaim mirrors a single cites-work statement on one entity.
type CitesWorkClaim struct {
	// ID is the statement handle; present only if the claim already exists
	// remotely.
	ID string `json:"id,omitempty"`

	// Value is the cited entity's QID.
	Value string `json:"value"`

	// Intentions are the QIDs of the intention qualifiers on the claim.
	Intentions []string `json:"intentions,omitempty"`

	// References are carried opaquely so an edit keeps the claim's
	// provenance intact.
	References []json.RawMessage `json:"references,omitempty"`

	// Remove marks the claim for deletion on submit.
	Remove bool `json:"remove,omitempty"`
}

// EqualValue reports whether two claims cite the same work.
func (c CitesWorkClaim) EqualValue(o CitesWorkClaim) bool {
	return c.Value == o.Value
}

// SameIntentions reports whether two claims carry the same intention set,
// regardless of order or duplicates.
func (c CitesWorkClaim) SameIntentions(o CitesWorkClaim) bool {
	return intentionSet(c.Intentions) == intentionSet(o.Intentions)
}

func intentionSet(list []string) string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		seen[v] = true
	}
	keys := make([]string, 0, len(seen))
	for v := range seen {
		keys = append(keys, v)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// toWire serializes the claim into the Wikibase statement JSON accepted by
// wbeditentity. Claims queued for deletion carry only their handle and the
// remove flag.
func (c CitesWorkClaim) toWire() map[string]any {
	if c.Remove {
		return map[string]any{"id": c.ID, "remove": ""}
	}

	stmt := map[string]any{
		"mainsnak": entitySnak(PropCitesWork, c.Value),
		"type":     "statement",
		"rank":     "normal",
	}
	if c.ID != "" {
		stmt["id"] = c.ID
	}
	if len(c.Intentions) > 0 {
		quals := make([]any, 0, len(c.Intentions))
		for _, qid := range c.Intentions {
			quals = append(quals, entitySnak(PropIntention, qid))
		}
		stmt["qualifiers"] = map[string]any{PropIntention: quals}
	}
	if len(c.References) > 0 {
		stmt["references"] = c.References
	}
	return stmt
}

func entitySnak(property, qid string) map[string]any {
	return map[string]any{
		"snaktype": "value",
		"property": property,
		"datavalue": map[string]any{
			"type": "wikibase-entityid",
			"value": map[string]any{
				"entity-type": "item",
				"id":          qid,
			},
		},
	}
}
