package advisord

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
)

// #region types

type recommendationRequest struct {
	Preferences     prefs.Snapshot `json:"preferences"`
	BrowsingHistory []string       `json:"browsing_history"`
}

type recommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// #endregion types

// #region server-struct

// Server serves the two collaborator endpoints the client speaks to.
type Server struct {
	store  *Store
	engine *Engine
}

// NewServer wires a server over the given store and engine.
func NewServer(store *Store, engine *Engine) *Server {
	return &Server{store: store, engine: engine}
}

// Routes builds the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/api/products", s.handleProducts)
	r.Post("/api/recommendations", s.handleRecommendations)
	return r
}

// #endregion server-struct

// #region handlers

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.All()
	if err != nil {
		log.Printf("[ADVISORD] list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load products"})
		return
	}
	if products == nil {
		// An empty catalog encodes as [], not null.
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.Preferences.PriceRange == "" {
		req.Preferences.PriceRange = prefs.PriceAll
	}
	if !req.Preferences.PriceRange.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown price range"})
		return
	}

	products, err := s.store.All()
	if err != nil {
		log.Printf("[ADVISORD] load catalog for recommendations: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load catalog"})
		return
	}

	recs := s.engine.Recommend(products, req.Preferences, req.BrowsingHistory)
	if recs == nil {
		recs = []Recommendation{}
	}
	log.Printf("[ADVISORD] recommendations: prefs=%s history=%d -> %d item(s)",
		req.Preferences.PriceRange, len(req.BrowsingHistory), len(recs))
	writeJSON(w, http.StatusOK, recommendationResponse{Recommendations: recs})
}

// #endregion handlers

// #region helpers

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[ADVISORD] encode response: %v", err)
	}
}

// #endregion helpers
