package view

import (
	"context"
	"testing"
	"time"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/api"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/history"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/session"
)

// #region helpers

type staticSource []catalog.Product

func (s staticSource) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	return s, nil
}

func loadedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	src := staticSource{
		{ID: "p1", Name: "Trail Shoe", Category: "Footwear", Brand: "Acme", Price: 89.99},
		{ID: "p2", Name: "Road Shoe", Category: "Footwear", Brand: "Bolt", Price: 120},
		{ID: "p3", Name: "Rain Jacket", Category: "Outerwear", Brand: "Acme", Price: 210},
		{ID: "p4", Name: "Wool Hat", Category: "Accessories", Brand: "Crest", Price: 25},
	}
	if err := c.Load(context.Background(), src, catalog.DefaultLoadPolicy()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

type staticRecommender struct {
	entries []api.RecommendationEntry
	err     error
}

func (s staticRecommender) GetRecommendations(ctx context.Context, snapshot prefs.Snapshot, browsingHistory []string) ([]api.RecommendationEntry, error) {
	return s.entries, s.err
}

func awaitPhase(t *testing.T, s *session.Session, want session.Phase) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for s.Phase() != want {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for phase %s", want)
		case <-time.After(time.Millisecond):
		}
	}
}

// #endregion helpers

// #region controller-tests

func TestController_StartsOnCatalog(t *testing.T) {
	c := NewController()
	if c.Active() != ViewCatalog {
		t.Fatalf("expected catalog, got %s", c.Active())
	}
}

func TestController_SelectAndForce(t *testing.T) {
	c := NewController()

	c.Select(ViewHistory)
	if c.Active() != ViewHistory {
		t.Fatalf("expected history, got %s", c.Active())
	}

	c.Select("settings") // unknown, ignored
	if c.Active() != ViewHistory {
		t.Fatalf("unknown view must be ignored, got %s", c.Active())
	}

	c.ForceRecommendations()
	if c.Active() != ViewRecommendations {
		t.Fatalf("expected recommendations after force, got %s", c.Active())
	}
}

// #endregion controller-tests

// #region overlay-tests

func TestOverlay_OpenCloseIndependentInstances(t *testing.T) {
	var catalogOverlay, recsOverlay Overlay
	p := catalog.Product{ID: "p1", Name: "Trail Shoe"}

	catalogOverlay.Open(p)
	if _, ok := recsOverlay.Current(); ok {
		t.Error("opening the catalog overlay must not affect the recommendations overlay")
	}

	got, ok := catalogOverlay.Current()
	if !ok || got.ID != "p1" {
		t.Fatalf("expected p1 open, got %+v ok=%v", got, ok)
	}

	catalogOverlay.Close()
	if _, ok := catalogOverlay.Current(); ok {
		t.Error("expected overlay cleared after close")
	}
}

// #endregion overlay-tests

// #region catalog-view-tests

func TestBuildCatalogView_ViewedFlags(t *testing.T) {
	c := loadedCatalog(t)
	h := history.NewTracker()
	h.Record("p2")
	var overlay Overlay

	v := BuildCatalogView(c, h, &overlay)
	if len(v.Products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(v.Products))
	}
	for _, cp := range v.Products {
		want := cp.ID == "p2"
		if cp.Viewed != want {
			t.Errorf("product %s: viewed=%v, want %v", cp.ID, cp.Viewed, want)
		}
	}
	if v.Detail != nil {
		t.Error("expected no detail with closed overlay")
	}
}

// #endregion catalog-view-tests

// #region preferences-view-tests

func TestBuildPreferencesView_TruncatesCollapsedLists(t *testing.T) {
	c := loadedCatalog(t)
	p := prefs.NewStore()
	p.Toggle(prefs.KindCategories, "Outerwear")

	v := BuildPreferencesView(c, p, Disclosure{}, 2)

	if len(v.Categories.Visible) != 2 {
		t.Fatalf("expected 2 visible categories, got %d", len(v.Categories.Visible))
	}
	if v.Categories.Visible[0].Value != "Footwear" || v.Categories.Visible[1].Value != "Outerwear" {
		t.Errorf("expected first-seen order, got %+v", v.Categories.Visible)
	}
	if !v.Categories.Visible[1].Selected {
		t.Error("expected Outerwear marked selected")
	}
	if v.Categories.Hidden != 1 {
		t.Errorf("expected 1 hidden category, got %d", v.Categories.Hidden)
	}
	if v.Brands.Hidden != 1 {
		t.Errorf("expected 1 hidden brand, got %d", v.Brands.Hidden)
	}
}

func TestBuildPreferencesView_ExpandedShowsAll(t *testing.T) {
	c := loadedCatalog(t)
	p := prefs.NewStore()
	d := Disclosure{}
	d.Toggle(prefs.KindCategories)

	v := BuildPreferencesView(c, p, d, 2)
	if len(v.Categories.Visible) != 3 {
		t.Fatalf("expected all 3 categories visible, got %d", len(v.Categories.Visible))
	}
	if v.Categories.Hidden != 0 {
		t.Errorf("expected 0 hidden, got %d", v.Categories.Hidden)
	}
	// Brands stay collapsed; disclosure is per kind.
	if len(v.Brands.Visible) != 2 {
		t.Errorf("expected brands still truncated, got %d visible", len(v.Brands.Visible))
	}
}

// #endregion preferences-view-tests

// #region history-view-tests

func TestBuildHistoryView_ResolvesInFirstViewedOrder(t *testing.T) {
	c := loadedCatalog(t)
	h := history.NewTracker()
	h.Record("p3")
	h.Record("p1")
	h.Record("gone") // unresolvable, skipped

	v := BuildHistoryView(c, h)
	if len(v.Products) != 2 {
		t.Fatalf("expected 2 resolved products, got %d", len(v.Products))
	}
	if v.Products[0].ID != "p3" || v.Products[1].ID != "p1" {
		t.Errorf("expected order [p3 p1], got [%s %s]", v.Products[0].ID, v.Products[1].ID)
	}
}

// #endregion history-view-tests

// #region recommendations-view-tests

func TestBuildRecommendationsView_DistinguishesEmptyFromFailed(t *testing.T) {
	c := loadedCatalog(t)

	empty := session.New(staticRecommender{entries: []api.RecommendationEntry{}}, c)
	empty.Fetch(context.Background(), prefs.Snapshot{PriceRange: prefs.PriceAll}, nil)
	awaitPhase(t, empty, session.PhaseReady)

	var overlay Overlay
	v := BuildRecommendationsView(empty, &overlay)
	if v.Failed || v.Loading {
		t.Errorf("empty ready result must not look failed or loading: %+v", v)
	}
	if len(v.Items) != 0 {
		t.Errorf("expected 0 items, got %d", len(v.Items))
	}

	failed := session.New(staticRecommender{err: &api.StatusError{Status: 500}}, c)
	failed.Fetch(context.Background(), prefs.Snapshot{PriceRange: prefs.PriceAll}, nil)
	awaitPhase(t, failed, session.PhaseFailed)

	v = BuildRecommendationsView(failed, &overlay)
	if !v.Failed {
		t.Error("expected failed view state")
	}
	if v.Failure == nil || v.Failure.Status != 500 {
		t.Errorf("expected failure with status 500, got %+v", v.Failure)
	}
}

func TestBuildRecommendationsView_Loading(t *testing.T) {
	c := loadedCatalog(t)
	block := make(chan struct{})
	defer close(block)

	s := session.New(blockingRecommender{block: block}, c)
	s.Fetch(context.Background(), prefs.Snapshot{PriceRange: prefs.PriceAll}, nil)
	awaitPhase(t, s, session.PhaseLoading)

	var overlay Overlay
	v := BuildRecommendationsView(s, &overlay)
	if !v.Loading {
		t.Error("expected loading view state")
	}
}

type blockingRecommender struct {
	block chan struct{}
}

func (b blockingRecommender) GetRecommendations(ctx context.Context, snapshot prefs.Snapshot, browsingHistory []string) ([]api.RecommendationEntry, error) {
	<-b.block
	return nil, nil
}

// #endregion recommendations-view-tests
