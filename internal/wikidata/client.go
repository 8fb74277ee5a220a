// Package wikidata is a rate-limited client for the Wikidata action API and
// the reconciliation service, scoped to what the citation graph needs:
// cites-work claims, entity metadata, claim edits, and candidate search.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Wikidata action API endpoint.
	BaseURL = "https://www.wikidata.org/w/api.php"

	// ReconcileURL is the Wikidata reconciliation service endpoint.
	ReconcileURL = "https://wikidata.reconci.link/en/api"

	// RateLimit keeps the client well under the anonymous API ceiling.
	RateLimit = 5.0

	// MaxEntitiesPerRequest is the wbgetentities batch limit.
	MaxEntitiesPerRequest = 50

	defaultUserAgent = "citelink/1.0 (https://github.com/matsen/citelink)"
)

// Credentials are bot or account credentials for claim edits.
type Credentials struct {
	Username string
	Password string
}

// LoginProvider supplies credentials on demand. Returning ok=false means
// the user cancelled the login.
type LoginProvider interface {
	Credentials() (Credentials, bool)
}

// EnvLogin reads credentials from WIKIDATA_USERNAME / WIKIDATA_PASSWORD.
type EnvLogin struct{}

// Credentials implements LoginProvider.
func (EnvLogin) Credentials() (Credentials, bool) {
	user := os.Getenv("WIKIDATA_USERNAME")
	pass := os.Getenv("WIKIDATA_PASSWORD")
	if user == "" || pass == "" {
		return Credentials{}, false
	}
	return Credentials{Username: user, Password: pass}, true
}

// Client is a rate-limited HTTP client for the Wikidata APIs.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	baseURL      string
	reconcileURL string
	userAgent    string
	login        LoginProvider

	csrfToken string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom action API URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithReconcileURL sets a custom reconciliation endpoint (for testing).
func WithReconcileURL(url string) ClientOption {
	return func(c *Client) {
		c.reconcileURL = url
	}
}

// WithLogin sets the credential source for claim edits.
func WithLogin(p LoginProvider) ClientOption {
	return func(c *Client) {
		c.login = p
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Wikidata client. Login sessions need cookies, so the
// HTTP client carries a jar unless a custom one is supplied.
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		httpClient:   &http.Client{Timeout: 60 * time.Second, Jar: jar},
		limiter:      rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:      BaseURL,
		reconcileURL: ReconcileURL,
		userAgent:    defaultUserAgent,
		login:        EnvLogin{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET against the action API.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	return c.do(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), "", nil)
}

// post performs a rate-limited form POST against the action API.
func (c *Client) post(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	body := strings.NewReader(params.Encode())
	return c.do(ctx, http.MethodPost, c.baseURL, "application/x-www-form-urlencoded", body)
}

func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// The action API reports failures inside a 200 body.
	var probe struct {
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Error != nil {
		return nil, &APIError{Code: probe.Error.Code, Info: probe.Error.Info}
	}

	return data, nil
}

func formReader(v url.Values) io.Reader {
	return strings.NewReader(v.Encode())
}

// batches splits QIDs into wbgetentities-sized chunks.
func batches(qids []string) [][]string {
	var out [][]string
	for len(qids) > MaxEntitiesPerRequest {
		out = append(out, qids[:MaxEntitiesPerRequest])
		qids = qids[MaxEntitiesPerRequest:]
	}
	if len(qids) > 0 {
		out = append(out, qids)
	}
	return out
}
