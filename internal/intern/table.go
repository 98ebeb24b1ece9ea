// Package intern assigns dense reference numbers to strings in first-seen
// order. Writers use it to build OASIS name tables.
package intern

import "github.com/arloliu/maskio/internal/hash"

// Table maps strings to reference numbers 0, 1, 2, ... in insertion order.
//
// Lookups go through the xxHash64 of the string; distinct strings that share
// a hash are chained and counted as collisions.
type Table struct {
	byHash     map[uint64][]uint64 // hash → refnums with that hash
	names      []string            // refnum → string
	collisions int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byHash: make(map[uint64][]uint64),
		names:  make([]string, 0),
	}
}

// Intern returns the reference number of s, assigning the next free one if s
// has not been seen. added reports whether s was new.
func (t *Table) Intern(s string) (ref uint64, added bool) {
	h := hash.ID(s)
	chain := t.byHash[h]
	for _, r := range chain {
		if t.names[r] == s {
			return r, false
		}
	}
	if len(chain) > 0 {
		t.collisions++
	}

	ref = uint64(len(t.names))
	t.names = append(t.names, s)
	t.byHash[h] = append(chain, ref)

	return ref, true
}

// Lookup returns the reference number of s without inserting it.
func (t *Table) Lookup(s string) (uint64, bool) {
	for _, r := range t.byHash[hash.ID(s)] {
		if t.names[r] == s {
			return r, true
		}
	}

	return 0, false
}

// Names returns the interned strings ordered by reference number.
func (t *Table) Names() []string {
	return t.names
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	return len(t.names)
}

// Collisions returns how many insertions hit an occupied hash bucket.
func (t *Table) Collisions() int {
	return t.collisions
}

// Reset clears the table, keeping allocated capacity.
func (t *Table) Reset() {
	for k := range t.byHash {
		delete(t.byHash, k)
	}
	t.names = t.names[:0]
	t.collisions = 0
}
