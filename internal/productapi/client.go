// =============================================================================
// Sales Analytics - Product API Client
// =============================================================================
//
// Fetches product metadata from a DummyJSON-compatible product service.
//
// ENDPOINTS (relative to BaseURL, e.g. https://dummyjson.com/products):
//   GET {base}?limit=N        -> {"products": [...]}
//   GET {base}/{id}           -> {...single product...}
//   GET {base}/search?q=term  -> {"products": [...]}
//
// ERROR HANDLING:
//   Every failure (connection, timeout, non-2xx status, undecodable body) is
//   returned as *ExternalServiceError. Callers treat it as "no product data"
//   and carry on without enrichment.
//
// =============================================================================

package productapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public DummyJSON product endpoint.
const DefaultBaseURL = "https://dummyjson.com/products"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// DefaultPageLimit is the number of products requested by FetchAll.
const DefaultPageLimit = 100

// ErrNotFound is wrapped when the service reports a missing product.
var ErrNotFound = errors.New("product not found")

// =============================================================================
// ERROR TYPE
// =============================================================================

// ExternalServiceError describes a failed call to the product service.
type ExternalServiceError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("product api %s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("product api %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the product service.
type Client struct {
	baseURL    string
	pageLimit  int
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithPageLimit sets the number of products requested by FetchAll.
func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// NewClient creates a Client for baseURL. A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageLimit:  DefaultPageLimit,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll retrieves the first page of products.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	endpoint := c.baseURL + "?limit=" + strconv.Itoa(c.pageLimit)

	var page productPage
	if err := c.getJSON(ctx, "fetch", endpoint, &page); err != nil {
		return nil, err
	}

	products := page.normalize()
	c.log.Info().Int("count", len(products)).Msg("fetched products")
	return products, nil
}

// GetProduct retrieves a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	endpoint := c.baseURL + "/" + strconv.Itoa(id)

	var raw rawProduct
	if err := c.getJSON(ctx, "get", endpoint, &raw); err != nil {
		return Product{}, err
	}
	if raw.ID == nil || *raw.ID <= 0 {
		return Product{}, &ExternalServiceError{Op: "get", URL: endpoint, Err: fmt.Errorf("response has no product id")}
	}
	return raw.normalize(), nil
}

// Search retrieves products matching query.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	endpoint := c.baseURL + "/search?q=" + url.QueryEscape(query)

	var page productPage
	if err := c.getJSON(ctx, "search", endpoint, &page); err != nil {
		return nil, err
	}

	products := page.normalize()
	c.log.Info().Str("query", query).Int("count", len(products)).Msg("searched products")
	return products, nil
}

// getJSON performs a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fail := func(status int, err error) error {
		c.log.Warn().Str("op", op).Str("url", endpoint).Int("status", status).Err(err).Msg("product api request failed")
		return &ExternalServiceError{Op: op, URL: endpoint, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("op", op).Str("url", endpoint).Msg("product api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fail(resp.StatusCode, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
