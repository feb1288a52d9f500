package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
)

// #region errors

// StatusError is a non-2xx response from either collaborator endpoint.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// DecodeError is a response body that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// #endregion errors

// #region types

// RecommendationEntry is one decoded item from the recommendation response.
type RecommendationEntry struct {
	Product     catalog.Product `json:"product"`
	Explanation string          `json:"explanation"`
	Confidence  float64         `json:"confidence_score"`
}

type recommendationRequest struct {
	Preferences     prefs.Snapshot `json:"preferences"`
	BrowsingHistory []string       `json:"browsing_history"`
}

type recommendationResponse struct {
	Recommendations []RecommendationEntry `json:"recommendations"`
}

// BreakerConfig tunes the optional circuit breaker around the recommendation
// call. Disabled leaves calls unwrapped.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// #endregion types

// #region client-struct

// Client speaks HTTP JSON to the product and recommendation collaborators.
type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]RecommendationEntry]
}

// NewClient creates a client against baseURL (scheme://host[:port], no
// trailing slash required).
func NewClient(baseURL string, timeout time.Duration, breaker BreakerConfig) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
	if breaker.Enabled {
		settings := gobreaker.Settings{
			Name:        "recommendations",
			MaxRequests: breaker.MaxRequests,
			Interval:    breaker.Interval,
			Timeout:     breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breaker.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("[API] breaker %s: %s -> %s", name, from, to)
			},
		}
		c.breaker = gobreaker.NewCircuitBreaker[[]RecommendationEntry](settings)
	}
	return c
}

// NewClientWithHTTPClient creates a Client with an injected *http.Client.
// Used for tests that need transport-level control.
func NewClientWithHTTPClient(baseURL string, httpc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// #endregion client-struct

// #region fetch-products

// FetchProducts retrieves the full product list from the product source.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build products request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("products request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Status: resp.StatusCode}
	}

	var products []catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return products, nil
}

// #endregion fetch-products

// #region get-recommendations

// GetRecommendations posts the preferences snapshot and browsing history and
// decodes the recommendation list. The raw entries are returned as-is;
// resolving embedded products against the catalog is the caller's concern.
func (c *Client) GetRecommendations(ctx context.Context, snapshot prefs.Snapshot, browsingHistory []string) ([]RecommendationEntry, error) {
	if c.breaker == nil {
		return c.getRecommendations(ctx, snapshot, browsingHistory)
	}
	entries, err := c.breaker.Execute(func() ([]RecommendationEntry, error) {
		return c.getRecommendations(ctx, snapshot, browsingHistory)
	})
	if err != nil {
		// Open-breaker rejections surface like any other transport failure.
		return nil, fmt.Errorf("recommendations request: %w", err)
	}
	return entries, nil
}

func (c *Client) getRecommendations(ctx context.Context, snapshot prefs.Snapshot, browsingHistory []string) ([]RecommendationEntry, error) {
	if snapshot.Categories == nil {
		snapshot.Categories = []string{}
	}
	if snapshot.Brands == nil {
		snapshot.Brands = []string{}
	}
	if browsingHistory == nil {
		browsingHistory = []string{}
	}

	body, err := json.Marshal(recommendationRequest{
		Preferences:     snapshot,
		BrowsingHistory: browsingHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("encode recommendation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build recommendation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Status: resp.StatusCode}
	}

	var decoded recommendationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return decoded.Recommendations, nil
}

// #endregion get-recommendations
