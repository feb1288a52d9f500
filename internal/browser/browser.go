package browser

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/history"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/journal"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/session"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/view"
)

// #region types

// Service is the remote collaborator surface the browser needs: the product
// source and the recommender. *api.Client satisfies it.
type Service interface {
	catalog.Source
	session.Recommender
}

// Options tunes the browser. Zero values fall back to sensible defaults.
type Options struct {
	LoadPolicy      catalog.LoadPolicy
	DisclosureLimit int
	Journal         *journal.Journal // nil disables journaling
}

// #endregion types

// #region browser-struct

// Browser is the composition root: it owns one instance of every state
// container, routes user intents to the owning component, and reacts to
// recommendation fetch completions. All mutations are synchronous except the
// single await point inside the recommendation session.
type Browser struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	prefs   *prefs.Store
	history *history.Tracker
	session *session.Session
	views   *view.Controller

	catalogOverlay view.Overlay
	recsOverlay    view.Overlay
	disclosure     view.Disclosure

	source          catalog.Source
	loadPolicy      catalog.LoadPolicy
	disclosureLimit int
	journal         *journal.Journal
}

// New wires a browser against the given collaborator service.
func New(svc Service, opts Options) *Browser {
	if opts.LoadPolicy.Attempts < 1 {
		opts.LoadPolicy = catalog.DefaultLoadPolicy()
	}
	if opts.DisclosureLimit == 0 {
		opts.DisclosureLimit = 2
	}

	b := &Browser{
		catalog:         catalog.New(),
		prefs:           prefs.NewStore(),
		history:         history.NewTracker(),
		views:           view.NewController(),
		source:          svc,
		loadPolicy:      opts.LoadPolicy,
		disclosureLimit: opts.DisclosureLimit,
		journal:         opts.Journal,
	}
	b.session = session.New(svc, b.catalog)
	b.session.SetListener(b.onFetchComplete)
	return b
}

// SessionID returns the recommendation session identifier.
func (b *Browser) SessionID() string {
	return b.session.ID()
}

// #endregion browser-struct

// #region start

// Start loads the catalog once at session start. On failure the catalog
// stays empty, the failure is journaled, and the error is returned for the
// caller to surface; the browser remains usable.
func (b *Browser) Start(ctx context.Context) error {
	err := b.catalog.Load(ctx, b.source, b.loadPolicy)
	if err != nil {
		log.Printf("[BROWSER] catalog load failed: %v", err)
		b.record(journal.EventCatalogFailed, err.Error())
		return err
	}
	b.record(journal.EventCatalogLoaded, fmt.Sprintf("products=%d", b.catalog.Len()))
	return nil
}

// #endregion start

// #region navigation

// ActiveView returns the currently presented screen.
func (b *Browser) ActiveView() view.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.views.Active()
}

// Select switches the active screen. Allowed at any time, including while a
// fetch is in flight; the fetch keeps running in the background.
func (b *Browser) Select(v view.View) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.views.Select(v)
	b.record(journal.EventViewSelected, string(b.views.Active()))
}

// #endregion navigation

// #region detail-overlays

// OpenCatalogDetail opens the catalog-screen overlay for the given product
// and records it in the browsing history. Opening, not listing, is what
// counts as a view. Reports whether the id resolved.
func (b *Browser) OpenCatalogDetail(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.catalog.ByID(id)
	if !ok {
		return false
	}
	b.catalogOverlay.Open(p)
	if b.history.Record(p.ID) {
		b.record(journal.EventDetailOpened, p.ID)
	}
	return true
}

// CloseCatalogDetail closes the catalog-screen overlay.
func (b *Browser) CloseCatalogDetail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogOverlay.Close()
}

// OpenRecommendationDetail opens the recommendations-screen overlay. No
// history side effect; only catalog opens count as views.
func (b *Browser) OpenRecommendationDetail(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.session.Items() {
		if item.Product.ID == id {
			b.recsOverlay.Open(item.Product)
			return true
		}
	}
	return false
}

// CloseRecommendationDetail closes the recommendations-screen overlay.
func (b *Browser) CloseRecommendationDetail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recsOverlay.Close()
}

// #endregion detail-overlays

// #region preference-intents

// SetPriceRange delegates to the preference store.
func (b *Browser) SetPriceRange(r prefs.PriceRange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prefs.SetPriceRange(r)
}

// TogglePreference delegates to the preference store.
func (b *Browser) TogglePreference(kind prefs.Kind, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prefs.Toggle(kind, value)
}

// ToggleDisclosure flips the show-more state of the preferences screen.
func (b *Browser) ToggleDisclosure(kind prefs.Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disclosure.Toggle(kind)
}

// #endregion preference-intents

// #region history-intents

// ClearHistory empties the browsing history. An in-flight fetch keeps the
// history snapshot it was dispatched with.
func (b *Browser) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.Clear()
	b.record(journal.EventHistoryCleared, "")
}

// #endregion history-intents

// #region recommendations

// RequestRecommendations snapshots preferences and history and dispatches
// the fetch. Returns session.ErrSessionBusy while one is in flight.
func (b *Browser) RequestRecommendations(ctx context.Context) error {
	b.mu.Lock()
	snapshot := b.prefs.Snapshot()
	ids := b.history.IDs()
	b.mu.Unlock()

	if err := b.session.Fetch(ctx, snapshot, ids); err != nil {
		return err
	}
	b.record(journal.EventFetchDispatched,
		fmt.Sprintf("prefs=%s categories=%d brands=%d history=%d",
			snapshot.PriceRange, len(snapshot.Categories), len(snapshot.Brands), len(ids)))
	return nil
}

// onFetchComplete runs on the fetch goroutine. A successful fetch forces the
// recommendations screen even if the user navigated elsewhere meanwhile.
func (b *Browser) onFetchComplete(o session.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o.Phase == session.PhaseReady {
		b.views.ForceRecommendations()
		b.record(journal.EventFetchReady, fmt.Sprintf("items=%d", len(o.Items)))
		return
	}
	b.record(journal.EventFetchFailed, o.Failure.Error())
}

// #endregion recommendations

// #region projections

// CatalogView derives the catalog screen model.
func (b *Browser) CatalogView() view.CatalogView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return view.BuildCatalogView(b.catalog, b.history, &b.catalogOverlay)
}

// PreferencesView derives the preferences screen model.
func (b *Browser) PreferencesView() view.PreferencesView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return view.BuildPreferencesView(b.catalog, b.prefs, b.disclosure, b.disclosureLimit)
}

// HistoryView derives the history screen model.
func (b *Browser) HistoryView() view.HistoryView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return view.BuildHistoryView(b.catalog, b.history)
}

// RecommendationsView derives the recommendations screen model.
func (b *Browser) RecommendationsView() view.RecommendationsView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return view.BuildRecommendationsView(b.session, &b.recsOverlay)
}

// #endregion projections

// #region journal

func (b *Browser) record(event journal.Event, detail string) {
	if b.journal == nil {
		return
	}
	if err := b.journal.Record(b.session.ID(), event, detail); err != nil {
		log.Printf("[BROWSER] journal error: %v", err)
	}
}

// #endregion journal
