package value

import (
	"sort"
	"strings"
)

// Map is an immutable, persistently-shared key/value collection
// (§3.2). It is backed by a PersistentMap (HAMT) for O(log32 n)
// structural-sharing updates, but every observable traversal — String,
// SortedKeys, SortedItems, ForEach — walks entries in the total order
// from compare.go rather than trie order, so two Maps built by
// different insertion sequences still display and iterate identically.
// Equal compares by key lookup, so its result does not depend on order.
type Map struct{ PM *PersistentMap }

func EmptyMapValue() Map { return Map{PM: EmptyMap()} }

func NewMap(pairs ...[2]Expression) Map { return Map{PM: MapFrom(pairs)} }

func (m Map) Kind() Kind { return KindMap }

func (m Map) String() string {
	items := m.SortedItems()
	var b strings.Builder
	b.WriteByte('{')
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it[0].String())
		b.WriteByte(' ')
		b.WriteString(it[1].String())
	}
	b.WriteByte('}')
	return b.String()
}

func (m Map) Len() int                      { return m.PM.Len() }
func (m Map) Get(k Expression) (Expression, bool) { return m.PM.Get(k) }
func (m Map) Contains(k Expression) bool    { return m.PM.Contains(k) }
func (m Map) Put(k, v Expression) Map       { return Map{PM: m.PM.Put(k, v)} }
func (m Map) Remove(k Expression) Map       { return Map{PM: m.PM.Remove(k)} }
func (m Map) Merge(o Map) Map               { return Map{PM: m.PM.Merge(o.PM)} }

// SortedKeys returns the map's keys in the total order from compare.go.
func (m Map) SortedKeys() []Expression {
	keys := m.PM.Keys()
	sort.Slice(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
	return keys
}

// SortedItems returns key/value pairs ordered by key, per §3.2/§9.
func (m Map) SortedItems() [][2]Expression {
	keys := m.SortedKeys()
	out := make([][2]Expression, len(keys))
	for i, k := range keys {
		v, _ := m.PM.Get(k)
		out[i] = [2]Expression{k, v}
	}
	return out
}

func (m Map) ForEach(fn func(k, v Expression)) {
	for _, it := range m.SortedItems() {
		fn(it[0], it[1])
	}
}
