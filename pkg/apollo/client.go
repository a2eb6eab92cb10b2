// Package apollo provides a client for the Apollo.io enrichment API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Apollo.io operations used for live enrichment.
type Client interface {
	// EnrichOrganization looks up a company by its primary domain.
	EnrichOrganization(ctx context.Context, domain string) (*Organization, error)
	// BulkMatchPeople enriches a batch of person identities in one call.
	BulkMatchPeople(ctx context.Context, details []PersonDetail) ([]map[string]any, error)
}

// Organization is the company shape returned by the enrichment endpoint.
type Organization struct {
	Name                  string `json:"name"`
	Industry              string `json:"industry"`
	WebsiteURL            string `json:"website_url"`
	PrimaryDomain         string `json:"primary_domain"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	Country               string `json:"country"`
	EstimatedNumEmployees int    `json:"estimated_num_employees"`
	TotalFunding          int64  `json:"total_funding"`
}

// PersonDetail identifies one person for bulk matching.
type PersonDetail struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
}

// Option configures the Apollo client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default requests-per-second throttle.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Apollo.io client. The free plan allows a low request
// rate, so the default limiter stays conservative.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.apollo.io",
		limiter: rate.NewLimiter(2, 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) EnrichOrganization(ctx context.Context, domain string) (*Organization, error) {
	payload := map[string]string{"domain": domain}

	var parsed struct {
		Organization *Organization `json:"organization"`
	}
	if err := c.post(ctx, "/v1/organizations/enrich", payload, &parsed); err != nil {
		return nil, err
	}
	if parsed.Organization == nil {
		return nil, eris.Errorf("apollo: no organization found for domain %q", domain)
	}
	return parsed.Organization, nil
}

func (c *httpClient) BulkMatchPeople(ctx context.Context, details []PersonDetail) ([]map[string]any, error) {
	if len(details) == 0 {
		return nil, eris.New("apollo: bulk match needs at least one person")
	}
	payload := map[string]any{"details": details}

	var parsed struct {
		People []map[string]any `json:"people"`
	}
	path := "/api/v1/people/bulk_match?reveal_personal_emails=false&reveal_phone_number=false"
	if err := c.post(ctx, path, payload, &parsed); err != nil {
		return nil, err
	}
	return parsed.People, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "apollo: rate limit wait")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "apollo: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "apollo: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "apollo: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "apollo: decode response")
	}
	return nil
}
