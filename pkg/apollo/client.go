// Package apollo is a client for the Apollo.io organization enrichment API.
// Lookups are keyed by a business web domain; Apollo returns its closest
// organization match, which callers must treat as a guess (see the relevance
// check in internal/enrich).
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

	"github.com/commcap/prospector/internal/resilience"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Client performs Apollo organization lookups.
type Client interface {
	// SearchByDomain returns Apollo's best-match organizations for a domain.
	// An empty Organizations slice means Apollo found nothing; that is not
	// an error.
	SearchByDomain(ctx context.Context, domain string) (*SearchResponse, error)
}

// SearchResponse mirrors the subset of Apollo's organization search response
// the prospector consumes. The first organization is the provider's best
// guess for the queried domain.
type SearchResponse struct {
	Organizations []Organization `json:"organizations"`
}

// Organization is Apollo's organization record.
type Organization struct {
	Name                   string   `json:"name"`
	PrimaryDomain          string   `json:"primary_domain"`
	WebsiteURL             string   `json:"website_url"`
	Industry               string   `json:"industry"`
	EstimatedNumEmployees  int      `json:"estimated_num_employees"`
	FoundedYear            int      `json:"founded_year"`
	Keywords               []string `json:"keywords"`
	MarketCap              string   `json:"market_cap"`
	AnnualRevenue          float64  `json:"annual_revenue"`
	AnnualRevenueFormatted string   `json:"annual_revenue_formatted"`
	RevenueRange           string   `json:"revenue_range"`

	PrimaryPhone *Phone   `json:"primary_phone,omitempty"`
	People       []Person `json:"people,omitempty"`
}

// Phone is an Apollo phone record.
type Phone struct {
	Number          string `json:"number"`
	SanitizedNumber string `json:"sanitized_number"`
}

// BestNumber prefers the sanitized number when present.
func (p *Phone) BestNumber() string {
	if p == nil {
		return ""
	}
	if p.SanitizedNumber != "" {
		return p.SanitizedNumber
	}
	return p.Number
}

// Person is one personnel entry on an organization.
type Person struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit and burst size on
// outbound calls.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates an Apollo API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(2, 1), // Apollo free tier is tight.
		retry:   resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("apollo", "organization search")
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchRequest struct {
	QOrganizationDomain string `json:"q_organization_domain"`
	Page                int    `json:"page"`
	PerPage             int    `json:"per_page"`
}

func (c *httpClient) SearchByDomain(ctx context.Context, domain string) (*SearchResponse, error) {
	if domain == "" {
		return nil, eris.New("apollo: empty domain")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "apollo: rate limiter")
	}

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*SearchResponse, error) {
		return c.search(ctx, domain)
	})
}

func (c *httpClient) search(ctx context.Context, domain string) (*SearchResponse, error) {
	body, err := json.Marshal(searchRequest{
		QOrganizationDomain: domain,
		Page:                1,
		PerPage:             1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/organizations/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}

	return &result, nil
}
