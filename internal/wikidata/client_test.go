package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(WithBaseURL(srv.URL), WithReconcileURL(srv.URL+"/reconcile"))
	return c, srv
}

func TestCitesWorkClaims(t *testing.T) {
	body := `{
		"entities": {
			"Q100": {
				"id": "Q100",
				"claims": {
					"P2860": [
						{
							"id": "Q100$stmt-1",
							"mainsnak": {
								"snaktype": "value",
								"property": "P2860",
								"datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q200"}}
							},
							"qualifiers": {
								"P3712": [
									{"snaktype": "value", "property": "P3712",
									 "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q106394178"}}}
								]
							}
						}
					]
				}
			},
			"Q999": {"id": "Q999", "missing": ""}
		}
	}`
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "wbgetentities" {
			t.Errorf("unexpected action: %s", r.URL.Query().Get("action"))
		}
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	claims, err := c.CitesWorkClaims(context.Background(), []string{"Q100", "Q999"})
	if err != nil {
		t.Fatalf("CitesWorkClaims: %v", err)
	}

	got := claims["Q100"]
	if len(got) != 1 {
		t.Fatalf("expected 1 claim for Q100, got %d", len(got))
	}
	if got[0].ID != "Q100$stmt-1" || got[0].Value != "Q200" {
		t.Errorf("unexpected claim: %+v", got[0])
	}
	if len(got[0].Intentions) != 1 || got[0].Intentions[0] != "Q106394178" {
		t.Errorf("unexpected intentions: %v", got[0].Intentions)
	}
	if claims["Q999"] != nil {
		t.Errorf("missing entity should map to nil, got %v", claims["Q999"])
	}
}

func TestEntitiesMapping(t *testing.T) {
	body := `{
		"entities": {
			"Q200": {
				"id": "Q200",
				"labels": {"en": {"language": "en", "value": "A Cited Paper"}},
				"claims": {
					"P31": [{"mainsnak": {"snaktype": "value", "property": "P31",
						"datavalue": {"type": "wikibase-entityid", "value": {"id": "Q13442814"}}}}],
					"P356": [{"mainsnak": {"snaktype": "value", "property": "P356",
						"datavalue": {"type": "string", "value": "10.1234/ABC"}}}],
					"P577": [{"mainsnak": {"snaktype": "value", "property": "P577",
						"datavalue": {"type": "time", "value": {"time": "+2021-03-15T00:00:00Z"}}}}],
					"P2093": [{"mainsnak": {"snaktype": "value", "property": "P2093",
						"datavalue": {"type": "string", "value": "Ada Lovelace"}}}]
				}
			},
			"Q300": {
				"id": "Q300",
				"labels": {"en": {"language": "en", "value": "A Painting"}},
				"claims": {
					"P31": [{"mainsnak": {"snaktype": "value", "property": "P31",
						"datavalue": {"type": "wikibase-entityid", "value": {"id": "Q3305213"}}}}]
				}
			}
		}
	}`
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	items, err := c.Entities(context.Background(), []string{"Q200", "Q300"})
	if err != nil {
		t.Fatalf("Entities: %v", err)
	}

	it := items["Q200"]
	if it == nil {
		t.Fatal("expected mapped item for Q200")
	}
	if it.ItemType != "journalArticle" {
		t.Errorf("item type: got %s", it.ItemType)
	}
	if it.Title != "A Cited Paper" {
		t.Errorf("title: got %s", it.Title)
	}
	if it.DOI != "10.1234/abc" {
		t.Errorf("doi: got %s", it.DOI)
	}
	if it.Date != "2021-03-15" {
		t.Errorf("date: got %s", it.Date)
	}
	if it.QID() != "Q200" {
		t.Errorf("qid: got %s", it.QID())
	}
	if len(it.Creators) != 1 || it.Creators[0].Last != "Lovelace" {
		t.Errorf("creators: got %v", it.Creators)
	}

	// A painting has no local schema mapping.
	if items["Q300"] != nil {
		t.Errorf("expected nil mapping for unsupported entity type, got %+v", items["Q300"])
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": {"code": "maxlag", "info": "lagged"}}`)
	}))
	defer srv.Close()

	_, err := c.CitesWorkClaims(context.Background(), []string{"Q1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRateLimited(err) {
		t.Errorf("expected rate-limit classification, got %v", err)
	}
}

type fixedLogin struct {
	creds Credentials
	ok    bool
}

func (f fixedLogin) Credentials() (Credentials, bool) { return f.creds, f.ok }

func TestSubmitClaimsCancelledLogin(t *testing.T) {
	calls := 0
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()
	WithLogin(fixedLogin{ok: false})(c)

	results, err := c.SubmitClaims(context.Background(), map[string][]CitesWorkClaim{
		"Q1": {{Value: "Q2"}},
		"Q3": {{Value: "Q4"}},
	})
	if err != nil {
		t.Fatalf("SubmitClaims: %v", err)
	}
	for qid, res := range results {
		if res != ResultCancelled {
			t.Errorf("%s: expected cancelled, got %s", qid, res)
		}
	}
	if calls != 0 {
		t.Errorf("cancelled login must not touch the remote, saw %d calls", calls)
	}
}

func TestSubmitClaims(t *testing.T) {
	var editedQIDs []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		action := r.Form.Get("action")
		if action == "" {
			action = r.URL.Query().Get("action")
		}
		switch action {
		case "query":
			kind := r.URL.Query().Get("type")
			fmt.Fprintf(w, `{"query": {"tokens": {"%stoken": "tok-%s"}}}`, kind, kind)
		case "login":
			fmt.Fprint(w, `{"login": {"result": "Success"}}`)
		case "wbeditentity":
			editedQIDs = append(editedQIDs, r.Form.Get("id"))
			if r.Form.Get("token") != "tok-csrf" {
				t.Errorf("missing csrf token, got %q", r.Form.Get("token"))
			}
			var payload struct {
				Claims []json.RawMessage `json:"claims"`
			}
			if err := json.Unmarshal([]byte(r.Form.Get("data")), &payload); err != nil {
				t.Errorf("bad edit payload: %v", err)
			}
			fmt.Fprint(w, `{"success": 1}`)
		default:
			t.Errorf("unexpected action %q", action)
		}
	})
	c, srv := newTestClient(handler)
	defer srv.Close()
	WithLogin(fixedLogin{creds: Credentials{Username: "bot", Password: "pw"}, ok: true})(c)

	results, err := c.SubmitClaims(context.Background(), map[string][]CitesWorkClaim{
		"Q1": {{Value: "Q2", Intentions: []string{"Q106394178"}}},
	})
	if err != nil {
		t.Fatalf("SubmitClaims: %v", err)
	}
	if results["Q1"] != ResultOK {
		t.Errorf("expected ok, got %s", results["Q1"])
	}
	if len(editedQIDs) != 1 || editedQIDs[0] != "Q1" {
		t.Errorf("unexpected edits: %v", editedQIDs)
	}
}

func TestReconcile(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reconcile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = r.ParseForm()
		var queries map[string]map[string]any
		if err := json.Unmarshal([]byte(r.Form.Get("queries")), &queries); err != nil {
			t.Errorf("bad queries payload: %v", err)
		}
		if _, ok := queries["q0"]; !ok {
			t.Error("expected q0 in queries")
		}
		fmt.Fprint(w, `{"q0": {"result": [
			{"id": "Q200", "name": "A Cited Paper", "score": 100, "match": true},
			{"id": "Q201", "name": "Another", "score": 40, "match": false}
		]}}`)
	}))
	defer srv.Close()

	results, err := c.Reconcile(context.Background(), []ReconcileQuery{
		{Title: "A Cited Paper", DOI: "10.1234/abc"},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(results) != 1 || len(results[0]) != 2 {
		t.Fatalf("unexpected result shape: %v", results)
	}
	if results[0][0].QID != "Q200" || !results[0][0].Match {
		t.Errorf("unexpected top candidate: %+v", results[0][0])
	}
}
