package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/api"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
	"github.com/danielpatrickdp/product-advisor/go-client/internal/prefs"
)

// #region errors

// ErrSessionBusy is returned by Fetch while a request is already in flight.
// Requests are never queued; at most one is in flight per session.
var ErrSessionBusy = errors.New("recommendation fetch already in flight")

// #endregion errors

// #region phases

// Phase is the session state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// #endregion phases

// #region failure

// FailureKind classifies why a fetch failed. The kinds share one recovery
// path (a fresh Fetch); they differ only for diagnostics.
type FailureKind int

const (
	FailureNetwork FailureKind = iota
	FailureServer
	FailureDecode
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network_error"
	case FailureServer:
		return "server_error"
	case FailureDecode:
		return "decode_error"
	}
	return "unknown"
}

// Failure describes a failed fetch. Status is set for FailureServer only.
type Failure struct {
	Kind   FailureKind
	Status int
	Err    error
}

func (f *Failure) Error() string {
	if f.Kind == FailureServer {
		return fmt.Sprintf("%s (%d): %v", f.Kind, f.Status, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// #endregion failure

// #region types

// Item is one recommendation: a catalog product plus the service's
// explanation and a confidence score in [0, 10].
type Item struct {
	Product     catalog.Product
	Explanation string
	Confidence  float64
}

// Recommender issues the remote recommendation request.
type Recommender interface {
	GetRecommendations(ctx context.Context, snapshot prefs.Snapshot, browsingHistory []string) ([]api.RecommendationEntry, error)
}

// Resolver looks embedded products up against the live catalog.
type Resolver interface {
	ByID(id string) (catalog.Product, bool)
}

// Outcome is delivered to the listener when a fetch completes.
type Outcome struct {
	SessionID string
	Phase     Phase
	Items     []Item
	Failure   *Failure
}

// Listener receives fetch completions. Called outside the session lock, on
// the fetch goroutine.
type Listener func(Outcome)

// #endregion types

// #region session-struct

// Session owns the recommendation request/response cycle: Idle -> Loading ->
// {Ready | Failed}, with Ready and Failed both re-enterable via Fetch. The
// result set is replaced wholesale on every completed fetch.
type Session struct {
	mu         sync.Mutex
	id         string
	phase      Phase
	items      []Item
	failure    *Failure
	generation uint64

	recommender Recommender
	resolver    Resolver
	listener    Listener
}

// New creates an idle session. resolver may not be nil.
func New(recommender Recommender, resolver Resolver) *Session {
	return &Session{
		id:          uuid.New().String(),
		phase:       PhaseIdle,
		recommender: recommender,
		resolver:    resolver,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetListener registers the completion listener. Must be set before the
// first Fetch.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// #endregion session-struct

// #region accessors

// Phase returns the current state machine position.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Items returns a copy of the current result set. Empty and meaningful only
// in PhaseReady.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Failure returns the failure of the last fetch, or nil outside PhaseFailed.
func (s *Session) Failure() *Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// #endregion accessors

// #region fetch

// Fetch dispatches a recommendation request using the given snapshots.
// Returns ErrSessionBusy if a request is already in flight; otherwise it
// transitions to Loading synchronously and resolves asynchronously. The
// snapshots taken at dispatch define the request for its whole lifetime;
// later preference or history edits do not affect it.
func (s *Session) Fetch(ctx context.Context, snapshot prefs.Snapshot, browsingHistory []string) error {
	s.mu.Lock()
	if s.phase == PhaseLoading {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	s.phase = PhaseLoading
	s.failure = nil
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	log.Printf("[SESSION] %s dispatch gen=%d prefs=%s categories=%d brands=%d history=%d",
		s.id, gen, snapshot.PriceRange, len(snapshot.Categories), len(snapshot.Brands), len(browsingHistory))

	go s.run(ctx, gen, snapshot, browsingHistory)
	return nil
}

func (s *Session) run(ctx context.Context, gen uint64, snapshot prefs.Snapshot, browsingHistory []string) {
	entries, err := s.recommender.GetRecommendations(ctx, snapshot, browsingHistory)
	if err != nil {
		s.complete(gen, nil, classify(err))
		return
	}
	s.complete(gen, s.resolve(entries), nil)
}

// resolve maps decoded entries to items, dropping entries whose embedded
// product does not exist in the catalog. One malformed entry must not lose
// the rest of the response.
func (s *Session) resolve(entries []api.RecommendationEntry) []Item {
	items := make([]Item, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		product, ok := s.resolver.ByID(e.Product.ID)
		if !ok {
			dropped++
			continue
		}
		items = append(items, Item{
			Product:     product,
			Explanation: e.Explanation,
			Confidence:  clampConfidence(e.Confidence),
		})
	}
	if dropped > 0 {
		log.Printf("[SESSION] %s dropped %d unresolvable recommendation(s)", s.id, dropped)
	}
	return items
}

func (s *Session) complete(gen uint64, items []Item, failure *Failure) {
	s.mu.Lock()
	if gen != s.generation || s.phase != PhaseLoading {
		// A completion may only commit the dispatch it belongs to.
		s.mu.Unlock()
		return
	}
	if failure != nil {
		s.phase = PhaseFailed
		s.failure = failure
		s.items = nil
	} else {
		s.phase = PhaseReady
		s.failure = nil
		s.items = items
	}
	outcome := Outcome{
		SessionID: s.id,
		Phase:     s.phase,
		Items:     items,
		Failure:   failure,
	}
	listener := s.listener
	s.mu.Unlock()

	if failure != nil {
		log.Printf("[SESSION] %s gen=%d failed: %v", s.id, gen, failure)
	} else {
		log.Printf("[SESSION] %s gen=%d ready: %d item(s)", s.id, gen, len(items))
	}

	if listener != nil {
		listener(outcome)
	}
}

// #endregion fetch

// #region classify

// classify maps a transport error onto the failure taxonomy. Anything that
// is neither a status nor a decode problem counts as a network failure.
func classify(err error) *Failure {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return &Failure{Kind: FailureServer, Status: statusErr.Status, Err: err}
	}
	var decodeErr *api.DecodeError
	if errors.As(err, &decodeErr) {
		return &Failure{Kind: FailureDecode, Err: err}
	}
	return &Failure{Kind: FailureNetwork, Err: err}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// #endregion classify
