package resolve

import (
	"fmt"

	"github.com/roach88/flatkey/internal/doc"
)

// Resolved is the ordered key-path to value accumulator built during
// traversal. It grows monotonically: entries are appended in visit order
// and never overwritten within a run. Lookup order is what makes the
// reference contract hold - a reference can only see entries written
// before its owning key was visited.
type Resolved struct {
	keys   []string
	values map[string]doc.Value
}

// NewResolved creates an empty accumulator.
func NewResolved() *Resolved {
	return &Resolved{values: make(map[string]doc.Value)}
}

// Set appends an entry. Writing a key twice is a programming error - the
// traversal visits each leaf exactly once - so it is rejected rather than
// silently replaced.
func (r *Resolved) Set(key string, value doc.Value) error {
	if _, ok := r.values[key]; ok {
		return fmt.Errorf("resolved key %q written twice", key)
	}
	r.keys = append(r.keys, key)
	r.values[key] = value
	return nil
}

// Get returns the value for a key-path and whether it is present.
func (r *Resolved) Get(key string) (doc.Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the key-paths in visit order. The returned slice is
// shared; callers must not mutate it.
func (r *Resolved) Keys() []string {
	return r.keys
}

// Len returns the number of entries.
func (r *Resolved) Len() int {
	return len(r.keys)
}

// Snapshot renders the accumulator as a sequence of [key, value] pairs in
// visit order, suitable for canonical hashing: both content and ordering
// participate in the identity.
func (r *Resolved) Snapshot() doc.Sequence {
	seq := make(doc.Sequence, 0, len(r.keys))
	for _, key := range r.keys {
		seq = append(seq, doc.Sequence{doc.String(key), r.values[key]})
	}
	return seq
}

// Fingerprint computes the content-addressed snapshot hash of the
// accumulator's current state.
func (r *Resolved) Fingerprint() (string, error) {
	return doc.SnapshotHash(r.Snapshot())
}
