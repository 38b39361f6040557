package dcinside

// idSet is the in-run deduplication set of platform post ids queued for
// detail fetch. Owned by one engine instance, never persisted.
type idSet struct {
	seen  map[string]struct{}
	order []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]struct{})}
}

// Add records id and reports whether it was new.
func (s *idSet) Add(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports whether id has been queued this run.
func (s *idSet) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Values returns the queued ids in insertion order.
func (s *idSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of queued ids.
func (s *idSet) Len() int {
	return len(s.order)
}
