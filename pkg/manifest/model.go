package manifest

import (
	"iter"
	"sort"

	"github.com/arthur-debert/build-runfiles/pkg/paths"
)

// Model maps manifest-relative paths to their desired entries.
//
// Iteration is always in ascending bytewise path order. A path sorts
// before every path it is a proper prefix of, so a directory is always
// visited before its descendants.
type Model struct {
	entries map[string]Entry
}

// NewModel returns an empty model
func NewModel() *Model {
	return &Model{entries: make(map[string]Entry)}
}

// Set stores e at path, replacing whatever was there.
func (m *Model) Set(path string, e Entry) {
	m.entries[path] = e
}

// Get returns the entry at path
func (m *Model) Get(path string) (Entry, bool) {
	e, ok := m.entries[path]
	return e, ok
}

// Has reports whether path is in the model
func (m *Model) Has(path string) bool {
	_, ok := m.entries[path]
	return ok
}

// Delete removes path from the model
func (m *Model) Delete(path string) {
	delete(m.entries, path)
}

// Len returns the number of entries
func (m *Model) Len() int {
	return len(m.entries)
}

// AddAncestors walks up from path, inserting each ancestor as a
// Directory. The walk stops at the first ancestor already present,
// whatever its kind; an existing entry is never overwritten.
func (m *Model) AddAncestors(path string) {
	for _, ancestor := range paths.Ancestors(path) {
		if m.Has(ancestor) {
			return
		}
		m.entries[ancestor] = DirectoryEntry
	}
}

// Paths returns every path in ascending order
func (m *Model) Paths() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All iterates over a snapshot of the model in ascending path order.
// Entries deleted during iteration are skipped.
func (m *Model) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, p := range m.Paths() {
			e, ok := m.entries[p]
			if !ok {
				continue
			}
			if !yield(p, e) {
				return
			}
		}
	}
}
