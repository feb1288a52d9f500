package advisord

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
)

// #region helpers

func engineCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Name: "Desk Lamp", Category: "A", Brand: "X", Price: 10, Rating: 4.0},
		{ID: "2", Name: "Standing Desk", Category: "B", Brand: "Y", Price: 300, Rating: 4.7},
		{ID: "3", Name: "Monitor Arm", Category: "B", Brand: "X", Price: 250, Rating: 3.9},
		{ID: "4", Name: "Cable Tray", Category: "C", Brand: "Z", Price: 220, Rating: 4.9},
	}
}

// #endregion helpers

// #region filter-tests

func TestRecommend_PriceBandIsHardFilter(t *testing.T) {
	e := NewEngine(5)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{PriceRange: prefs.PriceHigh}, nil)

	for _, r := range recs {
		if r.Product.Price <= 200 {
			t.Errorf("product %s outside the high band leaked through", r.Product.ID)
		}
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 high-band products, got %d", len(recs))
	}
}

func TestRecommend_ExcludesBrowsingHistory(t *testing.T) {
	e := NewEngine(5)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{PriceRange: prefs.PriceAll}, []string{"1", "3"})

	for _, r := range recs {
		if r.Product.ID == "1" || r.Product.ID == "3" {
			t.Errorf("already-viewed product %s must not be recommended", r.Product.ID)
		}
	}
}

func TestRecommend_CategoryAndBrandFilters(t *testing.T) {
	e := NewEngine(5)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{
		PriceRange: prefs.PriceAll,
		Categories: []string{"B"},
		Brands:     []string{"X"},
	}, nil)

	if len(recs) != 1 || recs[0].Product.ID != "3" {
		t.Fatalf("expected only product 3 (category B, brand X), got %+v", recs)
	}
}

// #endregion filter-tests

// #region scoring-tests

func TestRecommend_HistoryAffinityRanksHigher(t *testing.T) {
	e := NewEngine(5)
	// Viewing product 3 (category B) should lift the other B product above C.
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{PriceRange: prefs.PriceHigh}, []string{"3"})

	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Product.ID != "2" {
		t.Errorf("expected category-affine product 2 first, got %s", recs[0].Product.ID)
	}
}

func TestRecommend_ExplanationNamesPricePreference(t *testing.T) {
	e := NewEngine(5)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{PriceRange: prefs.PriceHigh}, nil)

	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
	if !strings.Contains(recs[0].Explanation, "matches your high price preference") {
		t.Errorf("expected price explanation, got %q", recs[0].Explanation)
	}
}

func TestRecommend_ConfidenceWithinRange(t *testing.T) {
	e := NewEngine(5)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{
		PriceRange: prefs.PriceHigh,
		Categories: []string{"B"},
		Brands:     []string{"Y"},
	}, []string{"3"})

	for _, r := range recs {
		if r.Confidence < 0 || r.Confidence > 10 {
			t.Errorf("confidence %v out of range for %s", r.Confidence, r.Product.ID)
		}
	}
}

func TestRecommend_LimitApplied(t *testing.T) {
	e := NewEngine(2)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{PriceRange: prefs.PriceAll}, nil)
	if len(recs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(recs))
	}
}

func TestRecommend_NoCandidates(t *testing.T) {
	e := NewEngine(5)
	recs := e.Recommend(engineCatalog(), prefs.Snapshot{
		PriceRange: prefs.PriceAll,
		Categories: []string{"Nonexistent"},
	}, nil)
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}

// #endregion scoring-tests
