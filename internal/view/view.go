package view

import (
	"log"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/history"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/session"
)

// #region views

// View identifies the single active screen.
type View string

const (
	ViewCatalog         View = "catalog"
	ViewPreferences     View = "preferences"
	ViewHistory         View = "history"
	ViewRecommendations View = "recommendations"
)

// Valid reports whether v names one of the four screens.
func (v View) Valid() bool {
	switch v {
	case ViewCatalog, ViewPreferences, ViewHistory, ViewRecommendations:
		return true
	}
	return false
}

// #endregion views

// #region controller

// Controller tracks the active screen. Screens are freely switchable at any
// time; a completed recommendation fetch forces the recommendations screen
// through ForceRecommendations regardless of where the user navigated.
type Controller struct {
	active View
}

// NewController starts on the catalog screen.
func NewController() *Controller {
	return &Controller{active: ViewCatalog}
}

// Active returns the current screen.
func (c *Controller) Active() View {
	return c.active
}

// Select switches to the given screen. Unknown views are ignored.
func (c *Controller) Select(v View) {
	if !v.Valid() {
		log.Printf("[VIEW] ignoring unknown view %q", v)
		return
	}
	c.active = v
}

// ForceRecommendations switches to the recommendations screen. Used when a
// fetch completes successfully; results are always surfaced, overriding the
// user's current tab.
func (c *Controller) ForceRecommendations() {
	if c.active != ViewRecommendations {
		log.Printf("[VIEW] forcing recommendations screen (was %s)", c.active)
	}
	c.active = ViewRecommendations
}

// #endregion controller

// #region overlay

// Overlay holds at most one inspected product for modal display. Each screen
// gets its own instance; opening a detail on one screen leaves the others
// untouched.
type Overlay struct {
	product *catalog.Product
}

// Open sets the inspected product.
func (o *Overlay) Open(p catalog.Product) {
	o.product = &p
}

// Close clears the inspected product.
func (o *Overlay) Close() {
	o.product = nil
}

// Current returns the inspected product, if any.
func (o *Overlay) Current() (catalog.Product, bool) {
	if o.product == nil {
		return catalog.Product{}, false
	}
	return *o.product, true
}

// #endregion overlay

// #region disclosure

// Disclosure holds the per-kind show-more state of the preferences screen.
// Collapsed lists are truncated to the configured limit.
type Disclosure struct {
	ShowAllCategories bool
	ShowAllBrands     bool
}

// Toggle flips the show-more state for the given kind. Unknown kinds are
// ignored.
func (d *Disclosure) Toggle(kind prefs.Kind) {
	switch kind {
	case prefs.KindCategories:
		d.ShowAllCategories = !d.ShowAllCategories
	case prefs.KindBrands:
		d.ShowAllBrands = !d.ShowAllBrands
	}
}

// #endregion disclosure

// #region catalog-view

// CatalogProduct is a product decorated with its viewed flag.
type CatalogProduct struct {
	catalog.Product
	Viewed bool
}

// CatalogView is the derived model for the catalog screen.
type CatalogView struct {
	Products []CatalogProduct
	Detail   *catalog.Product
}

// BuildCatalogView derives the catalog screen model from current container
// state. Pure; recomputed on demand.
func BuildCatalogView(c *catalog.Catalog, h *history.Tracker, overlay *Overlay) CatalogView {
	products := c.Products()
	out := CatalogView{Products: make([]CatalogProduct, len(products))}
	for i, p := range products {
		out.Products[i] = CatalogProduct{Product: p, Viewed: h.Contains(p.ID)}
	}
	if p, ok := overlay.Current(); ok {
		out.Detail = &p
	}
	return out
}

// #endregion catalog-view

// #region preferences-view

// SelectionOption is one toggleable category or brand value.
type SelectionOption struct {
	Value    string
	Selected bool
}

// TruncatedOptions is a selection list with disclosure truncation applied.
type TruncatedOptions struct {
	Visible  []SelectionOption
	Hidden   int // options cut off by the collapsed view
	Expanded bool
}

// PreferencesView is the derived model for the preferences screen.
type PreferencesView struct {
	PriceRange prefs.PriceRange
	Categories TruncatedOptions
	Brands     TruncatedOptions
}

// BuildPreferencesView derives the preferences screen model. limit is the
// number of options shown while collapsed; values at or below zero disable
// truncation.
func BuildPreferencesView(c *catalog.Catalog, p *prefs.Store, d Disclosure, limit int) PreferencesView {
	return PreferencesView{
		PriceRange: p.PriceRange(),
		Categories: truncateOptions(c.UniqueCategories(), p, prefs.KindCategories, d.ShowAllCategories, limit),
		Brands:     truncateOptions(c.UniqueBrands(), p, prefs.KindBrands, d.ShowAllBrands, limit),
	}
}

func truncateOptions(values []string, p *prefs.Store, kind prefs.Kind, expanded bool, limit int) TruncatedOptions {
	visible := values
	hidden := 0
	if !expanded && limit > 0 && len(values) > limit {
		visible = values[:limit]
		hidden = len(values) - limit
	}

	out := TruncatedOptions{
		Visible:  make([]SelectionOption, len(visible)),
		Hidden:   hidden,
		Expanded: expanded,
	}
	for i, v := range visible {
		out.Visible[i] = SelectionOption{Value: v, Selected: p.Selected(kind, v)}
	}
	return out
}

// #endregion preferences-view

// #region history-view

// HistoryView is the derived model for the history screen: viewed products
// resolved against the catalog in first-viewed order. Ids that no longer
// resolve are skipped.
type HistoryView struct {
	Products []catalog.Product
}

// BuildHistoryView derives the history screen model.
func BuildHistoryView(c *catalog.Catalog, h *history.Tracker) HistoryView {
	ids := h.IDs()
	out := HistoryView{Products: make([]catalog.Product, 0, len(ids))}
	for _, id := range ids {
		if p, ok := c.ByID(id); ok {
			out.Products = append(out.Products, p)
		}
	}
	return out
}

// #endregion history-view

// #region recommendations-view

// RecommendationsView is the derived model for the recommendations screen.
// Failed is distinct from an empty Ready result so the screen can show a
// retry affordance instead of implying "no good matches".
type RecommendationsView struct {
	Loading bool
	Failed  bool
	Failure *session.Failure
	Items   []session.Item
	Detail  *catalog.Product
}

// BuildRecommendationsView derives the recommendations screen model.
func BuildRecommendationsView(s *session.Session, overlay *Overlay) RecommendationsView {
	out := RecommendationsView{}
	switch s.Phase() {
	case session.PhaseLoading:
		out.Loading = true
	case session.PhaseFailed:
		out.Failed = true
		out.Failure = s.Failure()
	case session.PhaseReady:
		out.Items = s.Items()
	}
	if p, ok := overlay.Current(); ok {
		out.Detail = &p
	}
	return out
}

// #endregion recommendations-view
