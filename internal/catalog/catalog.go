package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// #region errors

// ErrCatalogUnavailable is returned when the product source cannot be reached
// or answers with a non-success status. The catalog stays empty in that case.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// #endregion errors

// #region types

// Product is one catalog entry. Products are immutable once loaded; a refetch
// replaces the whole list, never individual entries.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Inventory   int      `json:"inventory"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Tags        []string `json:"tags"`
}

// Source fetches the full product list from the remote product service.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// LoadPolicy controls how many times Load attempts the fetch before giving up.
// The default single attempt matches the service contract: failures are
// surfaced, not retried.
type LoadPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultLoadPolicy returns a single-attempt policy with no delay.
func DefaultLoadPolicy() LoadPolicy {
	return LoadPolicy{Attempts: 1}
}

// #endregion types

// #region catalog-struct

// Catalog holds the products fetched for the current browsing session and
// answers derived lookups over them. Load is the only mutation.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byID: map[string]int{}}
}

// #endregion catalog-struct

// #region load

// Load fetches the product list from source, retrying per policy. On failure
// the catalog remains empty and the error wraps ErrCatalogUnavailable.
func (c *Catalog) Load(ctx context.Context, source Source, policy LoadPolicy) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && policy.Delay > 0 {
			select {
			case <-time.After(policy.Delay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrCatalogUnavailable, ctx.Err())
			}
		}

		products, err := source.FetchProducts(ctx)
		if err != nil {
			lastErr = err
			log.Printf("[CATALOG] load attempt %d/%d failed: %v", i+1, attempts, err)
			continue
		}

		c.products = products
		c.byID = make(map[string]int, len(products))
		for idx, p := range products {
			c.byID[p.ID] = idx
		}
		return nil
	}

	return fmt.Errorf("%w: %v", ErrCatalogUnavailable, lastErr)
}

// #endregion load

// #region lookups

// Products returns the loaded product list in fetch order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len reports how many products are loaded.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID looks up a product by identifier.
func (c *Catalog) ByID(id string) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// UniqueCategories returns the distinct category values in first-seen order.
func (c *Catalog) UniqueCategories() []string {
	return uniqueBy(c.products, func(p Product) string { return p.Category })
}

// UniqueBrands returns the distinct brand values in first-seen order.
func (c *Catalog) UniqueBrands() []string {
	return uniqueBy(c.products, func(p Product) string { return p.Brand })
}

// #endregion lookups

// #region is-viewed

// IsViewed reports whether id is a member of the given history id set.
// Pure predicate; the catalog itself is not consulted.
func IsViewed(id string, history []string) bool {
	for _, h := range history {
		if h == id {
			return true
		}
	}
	return false
}

// #endregion is-viewed

// #region helpers

func uniqueBy(products []Product, key func(Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		k := key(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// #endregion helpers
