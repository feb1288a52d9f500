package prefs

import (
	"errors"
	"fmt"
)

// #region errors

// ErrInvalidPreferenceValue is returned for a price range outside the four
// enumerated bands, or for an unknown selection kind.
var ErrInvalidPreferenceValue = errors.New("invalid preference value")

// #endregion errors

// #region price-range

// PriceRange is the user's declared price band.
type PriceRange string

const (
	PriceAll    PriceRange = "all"
	PriceLow    PriceRange = "low"    // under $50
	PriceMedium PriceRange = "medium" // $50 - $200
	PriceHigh   PriceRange = "high"   // over $200
)

// Valid reports whether r is one of the four enumerated bands.
func (r PriceRange) Valid() bool {
	switch r {
	case PriceAll, PriceLow, PriceMedium, PriceHigh:
		return true
	}
	return false
}

// Matches reports whether a price falls inside the band.
func (r PriceRange) Matches(price float64) bool {
	switch r {
	case PriceLow:
		return price < 50
	case PriceMedium:
		return price >= 50 && price <= 200
	case PriceHigh:
		return price > 200
	default:
		return true
	}
}

// #endregion price-range

// #region kinds

// Kind names a toggleable selection set.
type Kind string

const (
	KindCategories Kind = "categories"
	KindBrands     Kind = "brands"
)

// #endregion kinds

// #region snapshot

// Snapshot is an immutable copy of the preferences at a point in time. A
// recommendation fetch is defined by the snapshot taken at dispatch, not by
// live store state.
type Snapshot struct {
	PriceRange PriceRange `json:"priceRange"`
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
}

// #endregion snapshot

// #region store

// Store holds the user's filtering preferences for the browsing session.
// Selections may reference values absent from the current catalog; stale
// entries are kept until the user toggles them off.
type Store struct {
	priceRange PriceRange
	categories []string
	brands     []string
}

// NewStore returns a store with the "all" price band and empty selections.
func NewStore() *Store {
	return &Store{priceRange: PriceAll}
}

// PriceRange returns the current price band.
func (s *Store) PriceRange() PriceRange {
	return s.priceRange
}

// SetPriceRange overwrites the price band. Values outside the enumerated
// bands are rejected.
func (s *Store) SetPriceRange(r PriceRange) error {
	if !r.Valid() {
		return fmt.Errorf("%w: price range %q", ErrInvalidPreferenceValue, r)
	}
	s.priceRange = r
	return nil
}

// Toggle adds value to the selection set of the given kind if absent and
// removes it if present. Toggling the same value an even number of times
// restores the original set.
func (s *Store) Toggle(kind Kind, value string) error {
	switch kind {
	case KindCategories:
		s.categories = toggle(s.categories, value)
	case KindBrands:
		s.brands = toggle(s.brands, value)
	default:
		return fmt.Errorf("%w: selection kind %q", ErrInvalidPreferenceValue, kind)
	}
	return nil
}

// Selected reports whether value is currently in the selection set of kind.
func (s *Store) Selected(kind Kind, value string) bool {
	switch kind {
	case KindCategories:
		return contains(s.categories, value)
	case KindBrands:
		return contains(s.brands, value)
	}
	return false
}

// Snapshot returns an immutable copy of the current preferences.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		PriceRange: s.priceRange,
		Categories: copyStrings(s.categories),
		Brands:     copyStrings(s.brands),
	}
}

// #endregion store

// #region helpers

func toggle(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, value)
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// #endregion helpers
