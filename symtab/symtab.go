// Package symtab implements the open-addressing hash table that holds the
// global variables and functions of a running program.
//
// Keys hash to the sum of their bytes modulo the capacity and collisions are
// resolved by scanning forward one slot at a time. Removal leaves a tombstone
// so that lookups passing through the removed slot still reach later keys.
// Tombstones are reclaimed when the table grows.
package symtab

import (
	"slices"

	"github.com/magnum-lang/magnum/object"
)

const (
	// InitialCapacity is the number of slots in a new table.
	InitialCapacity = 10

	// LoadFactor is the fraction of used slots (live entries plus tombstones)
	// above which the table doubles its capacity.
	LoadFactor = 0.75
)

type state uint8

const (
	empty state = iota
	occupied
	deleted
)

type entry struct {
	key   string
	value object.Object
	state state
}

// Table maps names to values. It is not safe for concurrent use.
type Table struct {
	entries    []entry
	count      int
	tombstones int
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make([]entry, InitialCapacity)}
}

func (t *Table) hash(key string) int {
	sum := 0
	for i := 0; i < len(key); i++ {
		sum += int(key[i])
	}
	return sum % len(t.entries)
}

// find returns the slot holding key, or -1.
func (t *Table) find(key string) int {
	capacity := len(t.entries)
	index := t.hash(key)
	for step := 0; step < capacity; step++ {
		e := &t.entries[index]
		switch {
		case e.state == empty:
			return -1
		case e.state == occupied && e.key == key:
			return index
		}
		index = (index + 1) % capacity
	}
	return -1
}

// Insert adds a new entry. It returns false, leaving the table unchanged, if
// the key is already present.
func (t *Table) Insert(key string, value object.Object) bool {
	if t.find(key) >= 0 {
		return false
	}
	if float64(t.count+t.tombstones+1) > float64(len(t.entries))*LoadFactor {
		t.grow()
	}
	capacity := len(t.entries)
	index := t.hash(key)
	tombstone := -1
	for t.entries[index].state != empty {
		if t.entries[index].state == deleted && tombstone < 0 {
			tombstone = index
		}
		index = (index + 1) % capacity
	}
	if tombstone >= 0 {
		index = tombstone
		t.tombstones--
	}
	t.entries[index] = entry{key: key, value: value, state: occupied}
	t.count++
	return true
}

// Get returns the value stored under key. A missing key yields object.Void
// and false.
func (t *Table) Get(key string) (object.Object, bool) {
	if index := t.find(key); index >= 0 {
		return t.entries[index].value, true
	}
	return object.Void, false
}

// Set replaces the value of an existing entry. It returns false if the key is
// not present.
func (t *Table) Set(key string, value object.Object) bool {
	index := t.find(key)
	if index < 0 {
		return false
	}
	t.entries[index].value = value
	return true
}

// Remove deletes an entry, leaving a tombstone in its slot.
func (t *Table) Remove(key string) bool {
	index := t.find(key)
	if index < 0 {
		return false
	}
	t.entries[index] = entry{state: deleted}
	t.count--
	t.tombstones++
	return true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.count
}

// Cap returns the number of slots.
func (t *Table) Cap() int {
	return len(t.entries)
}

// Keys returns the live keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.count)
	for _, e := range t.entries {
		if e.state == occupied {
			keys = append(keys, e.key)
		}
	}
	slices.Sort(keys)
	return keys
}

func (t *Table) grow() {
	old := t.entries
	t.entries = make([]entry, len(old)*2)
	t.tombstones = 0
	capacity := len(t.entries)
	for _, e := range old {
		if e.state != occupied {
			continue
		}
		index := t.hash(e.key)
		for t.entries[index].state != empty {
			index = (index + 1) % capacity
		}
		t.entries[index] = e
	}
}
