package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// SubmitResult is the per-entity outcome of a claim-edit submission.
type SubmitResult string

const (
	ResultOK               SubmitResult = "ok"
	ResultCancelled        SubmitResult = "cancelled"
	ResultPermissionDenied SubmitResult = "permissiondenied"
)

// SubmitClaims submits claim edits for a set of entities, one wbeditentity
// call per entity. Per-entity failures never abort the loop; each entity's
// outcome lands in the result map. A cancelled login marks every entity
// cancelled without touching the remote.
func (c *Client) SubmitClaims(ctx context.Context, edits map[string][]CitesWorkClaim) (map[string]SubmitResult, error) {
	results := make(map[string]SubmitResult, len(edits))

	if err := c.ensureLogin(ctx); err != nil {
		if err == ErrLoginCancelled {
			for qid := range edits {
				results[qid] = ResultCancelled
			}
			return results, nil
		}
		return nil, err
	}

	for qid, claims := range edits {
		results[qid] = c.submitEntity(ctx, qid, claims)
	}
	return results, nil
}

func (c *Client) submitEntity(ctx context.Context, qid string, claims []CitesWorkClaim) SubmitResult {
	wire := make([]any, 0, len(claims))
	for _, claim := range claims {
		wire = append(wire, claim.toWire())
	}
	payload, err := json.Marshal(map[string]any{"claims": wire})
	if err != nil {
		return SubmitResult(fmt.Sprintf("serialize: %v", err))
	}

	params := url.Values{}
	params.Set("action", "wbeditentity")
	params.Set("id", qid)
	params.Set("data", string(payload))
	params.Set("token", c.csrfToken)
	params.Set("summary", "Update citations")

	data, err := c.post(ctx, params)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Code == "permissiondenied" {
			return ResultPermissionDenied
		}
		if IsAuthError(err) {
			return ResultPermissionDenied
		}
		return SubmitResult(err.Error())
	}

	var resp struct {
		Success int `json:"success"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Success != 1 {
		return SubmitResult("edit not confirmed")
	}
	return ResultOK
}

// ensureLogin establishes a session and CSRF token if none is held.
func (c *Client) ensureLogin(ctx context.Context) error {
	if c.csrfToken != "" {
		return nil
	}

	creds, ok := c.login.Credentials()
	if !ok {
		return ErrLoginCancelled
	}

	loginToken, err := c.fetchToken(ctx, "login")
	if err != nil {
		return fmt.Errorf("fetching login token: %w", err)
	}

	params := url.Values{}
	params.Set("action", "login")
	params.Set("lgname", creds.Username)
	params.Set("lgpassword", creds.Password)
	params.Set("lgtoken", loginToken)

	data, err := c.post(ctx, params)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	var loginResp struct {
		Login struct {
			Result string `json:"result"`
		} `json:"login"`
	}
	if err := json.Unmarshal(data, &loginResp); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if loginResp.Login.Result != "Success" {
		return fmt.Errorf("%w: login result %s", ErrAuthError, loginResp.Login.Result)
	}

	csrf, err := c.fetchToken(ctx, "csrf")
	if err != nil {
		return fmt.Errorf("fetching csrf token: %w", err)
	}
	c.csrfToken = csrf
	return nil
}

func (c *Client) fetchToken(ctx context.Context, kind string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("meta", "tokens")
	params.Set("type", kind)

	data, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var resp struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	token := resp.Query.Tokens[kind+"token"]
	if token == "" {
		return "", fmt.Errorf("%w: empty %s token", ErrInvalidResponse, kind)
	}
	return token, nil
}
