package oasis

import "strconv"

// nameTable maps reference numbers to names.
//
// Names are either numbered implicitly in the order they appear or given an
// explicit reference number. Entries live in a map, so explicit numbers
// may arrive in any order and gaps stay empty.
type nameTable struct {
	kind  string
	names map[uint64]string
	next  uint64
}

func newNameTable(kind string) nameTable {
	return nameTable{kind: kind, names: make(map[uint64]string)}
}

// add stores name under the next implicit reference number.
func (t *nameTable) add(name string) {
	t.names[t.next] = name
	t.next++
}

// assign stores name under ref.
func (t *nameTable) assign(ref uint64, name string) {
	t.names[ref] = name
}

func (t *nameTable) lookup(ref uint64) (string, bool) {
	name, ok := t.names[ref]
	return name, ok
}

// placeholder names an entry that was referenced but never defined.
func (t *nameTable) placeholder(ref uint64) string {
	return t.kind + strconv.FormatUint(ref, 10)
}

func (t *nameTable) reset() {
	clear(t.names)
	t.next = 0
}
