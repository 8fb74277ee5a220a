package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ReconcileQuery is one candidate search against the reconciliation service.
type ReconcileQuery struct {
	Title string
	DOI   string
	ISBN  string
	Limit int
}

// ReconcileCandidate is one ranked candidate entity.
type ReconcileCandidate struct {
	QID   string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Match bool    `json:"match"` // Service asserts an exact match
}

// Reconcile runs a batch of candidate searches and returns one ranked list
// per query, in query order.
func (c *Client) Reconcile(ctx context.Context, queries []ReconcileQuery) ([][]ReconcileCandidate, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	wire := make(map[string]any, len(queries))
	for i, q := range queries {
		limit := q.Limit
		if limit <= 0 {
			limit = 5
		}
		entry := map[string]any{
			"query": q.Title,
			"limit": limit,
		}
		var props []map[string]string
		if q.DOI != "" {
			props = append(props, map[string]string{"pid": PropDOI, "v": q.DOI})
		}
		if q.ISBN != "" {
			props = append(props, map[string]string{"pid": PropISBN13, "v": q.ISBN})
		}
		if props != nil {
			entry["properties"] = props
		}
		wire[fmt.Sprintf("q%d", i)] = entry
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("queries", string(payload))
	data, err := c.do(ctx, "POST", c.reconcileURL, "application/x-www-form-urlencoded",
		formReader(form))
	if err != nil {
		return nil, fmt.Errorf("reconciliation query: %w", err)
	}

	var resp map[string]struct {
		Result []ReconcileCandidate `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	out := make([][]ReconcileCandidate, len(queries))
	for i := range queries {
		out[i] = resp[fmt.Sprintf("q%d", i)].Result
	}
	return out, nil
}
