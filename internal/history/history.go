package history

// #region tracker

// Tracker is an ordered set of product identifiers the user has opened a
// detail view for. First-viewed-first order, no capacity bound, no expiry.
type Tracker struct {
	order []string
	seen  map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: map[string]struct{}{}}
}

// Record appends id unless already present and reports whether it was newly
// added.
func (t *Tracker) Record(id string) bool {
	if _, ok := t.seen[id]; ok {
		return false
	}
	t.seen[id] = struct{}{}
	t.order = append(t.order, id)
	return true
}

// Clear empties the history unconditionally.
func (t *Tracker) Clear() {
	t.order = nil
	t.seen = map[string]struct{}{}
}

// Contains reports whether id has been recorded.
func (t *Tracker) Contains(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// Len reports how many distinct ids have been recorded.
func (t *Tracker) Len() int {
	return len(t.order)
}

// IDs returns a copy of the recorded ids in first-viewed order.
func (t *Tracker) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// #endregion tracker
