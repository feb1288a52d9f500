package advisord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
)

// #region types

// Recommendation is one scored catalog product in the wire format the client
// expects.
type Recommendation struct {
	Product     catalog.Product `json:"product"`
	Explanation string          `json:"explanation"`
	Confidence  float64         `json:"confidence_score"`
}

// #endregion types

// #region engine

const defaultLimit = 5

// Engine ranks catalog products against the user's preferences and browsing
// history. Deterministic: equal scores keep catalog order.
type Engine struct {
	limit int
}

// NewEngine creates an engine returning at most limit recommendations.
// Values below 1 fall back to the default of 5.
func NewEngine(limit int) *Engine {
	if limit < 1 {
		limit = defaultLimit
	}
	return &Engine{limit: limit}
}

// #endregion engine

// #region recommend

// Recommend scores the candidate products. Products already in the browsing
// history are excluded; a declared price band, category set, or brand set
// acts as a hard filter, matching how the catalog was narrowed before
// ranking in the original service.
func (e *Engine) Recommend(products []catalog.Product, snapshot prefs.Snapshot, browsingHistory []string) []Recommendation {
	viewed := make(map[string]struct{}, len(browsingHistory))
	viewedCategories := map[string]struct{}{}
	for _, id := range browsingHistory {
		viewed[id] = struct{}{}
		for _, p := range products {
			if p.ID == id {
				viewedCategories[p.Category] = struct{}{}
				break
			}
		}
	}

	var recs []Recommendation
	for _, p := range products {
		if _, ok := viewed[p.ID]; ok {
			continue
		}
		if len(snapshot.Categories) > 0 && !containsString(snapshot.Categories, p.Category) {
			continue
		}
		if len(snapshot.Brands) > 0 && !containsString(snapshot.Brands, p.Brand) {
			continue
		}
		if snapshot.PriceRange != prefs.PriceAll && snapshot.PriceRange.Valid() && !snapshot.PriceRange.Matches(p.Price) {
			continue
		}

		score, reasons := scoreProduct(p, snapshot, viewedCategories)
		recs = append(recs, Recommendation{
			Product:     p,
			Explanation: explanation(reasons),
			Confidence:  score,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
	if len(recs) > e.limit {
		recs = recs[:e.limit]
	}
	return recs
}

// #endregion recommend

// #region scoring

func scoreProduct(p catalog.Product, snapshot prefs.Snapshot, viewedCategories map[string]struct{}) (float64, []string) {
	score := 2.0 // candidates already passed the hard filters
	var reasons []string

	if snapshot.PriceRange != prefs.PriceAll && snapshot.PriceRange.Matches(p.Price) {
		score += 3
		reasons = append(reasons, fmt.Sprintf("matches your %s price preference", snapshot.PriceRange))
	}
	if containsString(snapshot.Categories, p.Category) {
		score += 2
		reasons = append(reasons, fmt.Sprintf("in %s, a category you selected", p.Category))
	}
	if containsString(snapshot.Brands, p.Brand) {
		score += 2
		reasons = append(reasons, fmt.Sprintf("from %s, a brand you selected", p.Brand))
	}
	if _, ok := viewedCategories[p.Category]; ok {
		score += 2
		reasons = append(reasons, "similar to products you viewed")
	}
	if p.Rating >= 4.5 {
		score++
		reasons = append(reasons, "highly rated")
	}

	if score > 10 {
		score = 10
	}
	return score, reasons
}

func explanation(reasons []string) string {
	if len(reasons) == 0 {
		return "a solid pick from the catalog"
	}
	return strings.Join(reasons, "; ")
}

func containsString(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// #endregion scoring
