package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/matsen/citelink/internal/record"
)

// Wire shapes for wbgetentities responses.
type wbEntitiesResponse struct {
	Entities map[string]wbEntity `json:"entities"`
}

type wbEntity struct {
	ID      string                   `json:"id"`
	Missing *string                  `json:"missing,omitempty"`
	Labels  map[string]wbLabel       `json:"labels"`
	Claims  map[string][]wbStatement `json:"claims"`
}

type wbLabel struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type wbStatement struct {
	ID         string              `json:"id"`
	MainSnak   wbSnak              `json:"mainsnak"`
	Qualifiers map[string][]wbSnak `json:"qualifiers"`
	References []json.RawMessage   `json:"references"`
}

type wbSnak struct {
	SnakType  string `json:"snaktype"`
	Property  string `json:"property"`
	DataValue struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"datavalue"`
}

// entityID extracts the QID from an entity-valued snak.
func (s wbSnak) entityID() string {
	if s.SnakType != "value" || s.DataValue.Type != "wikibase-entityid" {
		return ""
	}
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
		return ""
	}
	return v.ID
}

// stringValue extracts the value of a string-valued snak.
func (s wbSnak) stringValue() string {
	if s.SnakType != "value" || s.DataValue.Type != "string" {
		return ""
	}
	var v string
	if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
		return ""
	}
	return v
}

// timeValue extracts an ISO-ish date ("2023-05-01") from a time-valued snak.
func (s wbSnak) timeValue() string {
	if s.SnakType != "value" || s.DataValue.Type != "time" {
		return ""
	}
	var v struct {
		Time string `json:"time"`
	}
	if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
		return ""
	}
	// Wikibase time looks like "+2023-05-01T00:00:00Z".
	t := strings.TrimPrefix(v.Time, "+")
	if i := strings.IndexByte(t, 'T'); i > 0 {
		t = t[:i]
	}
	return t
}

// CitesWorkClaims fetches the cites-work claims for a set of entities in
// batched calls. The result has an entry for every requested QID; missing
// entities map to a nil slice.
func (c *Client) CitesWorkClaims(ctx context.Context, qids []string) (map[string][]CitesWorkClaim, error) {
	out := make(map[string][]CitesWorkClaim, len(qids))
	for _, qid := range qids {
		out[qid] = nil
	}

	for _, batch := range batches(qids) {
		params := url.Values{}
		params.Set("action", "wbgetentities")
		params.Set("ids", strings.Join(batch, "|"))
		params.Set("props", "claims")

		data, err := c.get(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetching claims: %w", err)
		}

		var resp wbEntitiesResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}

		for qid, entity := range resp.Entities {
			if entity.Missing != nil {
				continue
			}
			for _, stmt := range entity.Claims[PropCitesWork] {
				claim := CitesWorkClaim{
					ID:         stmt.ID,
					Value:      stmt.MainSnak.entityID(),
					References: stmt.References,
				}
				if claim.Value == "" {
					continue // somevalue/novalue snaks carry no citable target
				}
				for _, q := range stmt.Qualifiers[PropIntention] {
					if v := q.entityID(); v != "" {
						claim.Intentions = append(claim.Intentions, v)
					}
				}
				out[qid] = append(out[qid], claim)
			}
		}
	}

	return out, nil
}

// entityTypeMap translates a Wikidata instance-of QID to a local item type.
// Entities whose types all fall outside this table have no local schema
// mapping and are reported as unsupported by the caller.
var entityTypeMap = map[string]string{
	"Q13442814": "journalArticle", // scholarly article
	"Q18918145": "journalArticle", // academic journal article
	"Q571":      "book",           // book
	"Q3331189":  "book",           // edition
	"Q1980247":  "bookSection",    // chapter
	"Q10870555": "report",         // report
	"Q871232":   "newspaperArticle",
	"Q591041":   "conferencePaper", // conference paper
	"Q1266946":  "thesis",
	"Q187685":   "thesis", // doctoral thesis
}

// Entities fetches entity metadata and maps each to a local item. The
// result has an entry for every requested QID; missing entities and
// entities with no local type mapping map to nil.
func (c *Client) Entities(ctx context.Context, qids []string) (map[string]*record.Item, error) {
	out := make(map[string]*record.Item, len(qids))
	for _, qid := range qids {
		out[qid] = nil
	}

	for _, batch := range batches(qids) {
		params := url.Values{}
		params.Set("action", "wbgetentities")
		params.Set("ids", strings.Join(batch, "|"))
		params.Set("props", "labels|claims")
		params.Set("languages", "en")

		data, err := c.get(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetching entities: %w", err)
		}

		var resp wbEntitiesResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}

		for qid, entity := range resp.Entities {
			if entity.Missing != nil {
				continue
			}
			out[qid] = mapEntity(qid, entity)
		}
	}

	return out, nil
}

// mapEntity builds a local item from an entity, or nil when the entity's
// type has no local mapping.
func mapEntity(qid string, entity wbEntity) *record.Item {
	itemType := ""
	for _, stmt := range entity.Claims[PropInstanceOf] {
		if t, ok := entityTypeMap[stmt.MainSnak.entityID()]; ok {
			itemType = t
			break
		}
	}
	if itemType == "" {
		return nil
	}

	it := &record.Item{ItemType: itemType}
	if label, ok := entity.Labels["en"]; ok {
		it.Title = label.Value
	}
	it.SetQID(qid)

	if stmts := entity.Claims[PropDOI]; len(stmts) > 0 {
		it.DOI = strings.ToLower(stmts[0].MainSnak.stringValue())
	}
	if stmts := entity.Claims[PropISBN13]; len(stmts) > 0 {
		it.ISBN = stmts[0].MainSnak.stringValue()
	}
	if stmts := entity.Claims[PropPublicationDate]; len(stmts) > 0 {
		it.Date = stmts[0].MainSnak.timeValue()
	}
	for _, stmt := range entity.Claims[PropAuthorName] {
		if name := stmt.MainSnak.stringValue(); name != "" {
			it.Creators = append(it.Creators, splitAuthorName(name))
		}
	}

	return it
}

// splitAuthorName splits a full author-name string into a creator. A name
// without spaces stays single-field.
func splitAuthorName(name string) record.Creator {
	name = strings.TrimSpace(name)
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return record.Creator{Last: name, Single: true}
	}
	return record.Creator{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}
