package value

import "hash/fnv"

// PersistentMap is a 32-way bitmap-indexed hash trie (HAMT). Display
// and iteration order
// are NOT node order: Map (map.go) always walks Keys() through
// SortedItems, which imposes the total order from compare.go on top of
// this structure. The trie exists purely for O(log32 n) structural-
// sharing Put/Remove; it is not itself ordered.
type PersistentMap struct {
	root  *hamtNode
	count int
}

type hamtNode struct {
	bitmap   uint32
	entries  []hamtEntry // leaf slots, one per set bit that holds a value directly
	children []*hamtNode // one per set bit that holds a subtrie
	// bit b of bitmap set => either an entry or a child occupies that
	// slot; which one is distinguished by isChildBit.
	childBits uint32
}

type hamtEntry struct {
	hash  uint32
	key   Expression
	value Expression
}

func EmptyMap() *PersistentMap { return &PersistentMap{root: &hamtNode{}} }

func MapFrom(pairs [][2]Expression) *PersistentMap {
	m := EmptyMap()
	for _, p := range pairs {
		m = m.Put(p[0], p[1])
	}
	return m
}

func (m *PersistentMap) Len() int { return m.count }

func (m *PersistentMap) Get(key Expression) (Expression, bool) {
	return m.root.get(hashExpression(key), key, 0)
}

func (m *PersistentMap) Contains(key Expression) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *PersistentMap) Put(key, val Expression) *PersistentMap {
	newRoot, added := m.root.put(hashExpression(key), key, val, 0)
	count := m.count
	if added {
		count++
	}
	return &PersistentMap{root: newRoot, count: count}
}

func (m *PersistentMap) Remove(key Expression) *PersistentMap {
	newRoot, removed := m.root.remove(hashExpression(key), key, 0)
	if !removed {
		return m
	}
	return &PersistentMap{root: newRoot, count: m.count - 1}
}

func (m *PersistentMap) Keys() []Expression {
	var out []Expression
	m.root.collectKeys(&out)
	return out
}

func (m *PersistentMap) Values() []Expression {
	var out []Expression
	m.root.collectValues(&out)
	return out
}

func (m *PersistentMap) Items() [][2]Expression {
	var out [][2]Expression
	m.root.collectItems(&out)
	return out
}

// Merge returns a new map with other's entries overlaid on m's.
func (m *PersistentMap) Merge(other *PersistentMap) *PersistentMap {
	out := m
	for _, it := range other.Items() {
		out = out.Put(it[0], it[1])
	}
	return out
}

const hamtBits = 5
const hamtWidth = 1 << hamtBits
const hamtMask = hamtWidth - 1

func popcount(x uint32) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}

func bitpos(hash uint32, shift uint) uint32 {
	return 1 << ((hash >> shift) & hamtMask)
}

func (n *hamtNode) get(hash uint32, key Expression, shift uint) (Expression, bool) {
	bit := bitpos(hash, shift)
	if n.bitmap&bit == 0 {
		return nil, false
	}
	if n.childBits&bit != 0 {
		return n.children[childSlotIndex(n, bit)].get(hash, key, shift+hamtBits)
	}
	e := n.entries[entrySlotIndex(n, bit)]
	if e.hash == hash && expressionsEqual(e.key, key) {
		return e.value, true
	}
	return nil, false
}

// entrySlotIndex/childSlotIndex count set bits among only the
// same-kind (entry vs child) slots below bit, since entries and
// children are stored in separate parallel slices indexed by their own
// running population count rather than sharing one slice.
func entrySlotIndex(n *hamtNode, bit uint32) int {
	return popcount(n.bitmap &^ n.childBits & (bit - 1))
}

func childSlotIndex(n *hamtNode, bit uint32) int {
	return popcount(n.childBits & (bit - 1))
}

func (n *hamtNode) put(hash uint32, key, val Expression, shift uint) (*hamtNode, bool) {
	bit := bitpos(hash, shift)

	if n.bitmap&bit == 0 {
		// empty slot: insert a new leaf entry here.
		ei := entrySlotIndex(n, bit)
		newEntries := make([]hamtEntry, len(n.entries)+1)
		copy(newEntries, n.entries[:ei])
		newEntries[ei] = hamtEntry{hash: hash, key: key, value: val}
		copy(newEntries[ei+1:], n.entries[ei:])
		return &hamtNode{
			bitmap:    n.bitmap | bit,
			childBits: n.childBits,
			entries:   newEntries,
			children:  n.children,
		}, true
	}

	if n.childBits&bit != 0 {
		ci := childSlotIndex(n, bit)
		newChild, added := n.children[ci].put(hash, key, val, shift+hamtBits)
		newChildren := make([]*hamtNode, len(n.children))
		copy(newChildren, n.children)
		newChildren[ci] = newChild
		return &hamtNode{
			bitmap:    n.bitmap,
			childBits: n.childBits,
			entries:   n.entries,
			children:  newChildren,
		}, added
	}

	// occupied by a leaf entry: same key overwrites; different key
	// collides and must split into a child subtrie.
	ei := entrySlotIndex(n, bit)
	existing := n.entries[ei]
	if existing.hash == hash && expressionsEqual(existing.key, key) {
		newEntries := make([]hamtEntry, len(n.entries))
		copy(newEntries, n.entries)
		newEntries[ei] = hamtEntry{hash: hash, key: key, value: val}
		return &hamtNode{
			bitmap:    n.bitmap,
			childBits: n.childBits,
			entries:   newEntries,
			children:  n.children,
		}, false
	}

	child := &hamtNode{}
	child, _ = child.put(existing.hash, existing.key, existing.value, shift+hamtBits)
	child, _ = child.put(hash, key, val, shift+hamtBits)

	newEntries := make([]hamtEntry, len(n.entries)-1)
	copy(newEntries, n.entries[:ei])
	copy(newEntries[ei:], n.entries[ei+1:])

	ci := childSlotIndex(n, bit)
	newChildren := make([]*hamtNode, len(n.children)+1)
	copy(newChildren, n.children[:ci])
	newChildren[ci] = child
	copy(newChildren[ci+1:], n.children[ci:])

	return &hamtNode{
		bitmap:    n.bitmap | bit,
		childBits: n.childBits | bit,
		entries:   newEntries,
		children:  newChildren,
	}, true
}

func (n *hamtNode) remove(hash uint32, key Expression, shift uint) (*hamtNode, bool) {
	bit := bitpos(hash, shift)
	if n.bitmap&bit == 0 {
		return n, false
	}
	if n.childBits&bit != 0 {
		ci := childSlotIndex(n, bit)
		newChild, removed := n.children[ci].remove(hash, key, shift+hamtBits)
		if !removed {
			return n, false
		}
		newChildren := make([]*hamtNode, len(n.children))
		copy(newChildren, n.children)
		newChildren[ci] = newChild
		return &hamtNode{bitmap: n.bitmap, childBits: n.childBits, entries: n.entries, children: newChildren}, true
	}
	ei := entrySlotIndex(n, bit)
	e := n.entries[ei]
	if e.hash != hash || !expressionsEqual(e.key, key) {
		return n, false
	}
	newEntries := make([]hamtEntry, len(n.entries)-1)
	copy(newEntries, n.entries[:ei])
	copy(newEntries[ei:], n.entries[ei+1:])
	return &hamtNode{bitmap: n.bitmap &^ bit, childBits: n.childBits, entries: newEntries, children: n.children}, true
}

func (n *hamtNode) collectKeys(out *[]Expression) {
	for _, e := range n.entries {
		*out = append(*out, e.key)
	}
	for _, c := range n.children {
		c.collectKeys(out)
	}
}

func (n *hamtNode) collectValues(out *[]Expression) {
	for _, e := range n.entries {
		*out = append(*out, e.value)
	}
	for _, c := range n.children {
		c.collectValues(out)
	}
}

func (n *hamtNode) collectItems(out *[][2]Expression) {
	for _, e := range n.entries {
		*out = append(*out, [2]Expression{e.key, e.value})
	}
	for _, c := range n.children {
		c.collectItems(out)
	}
}

// hashExpression hashes a value by its display form, which is simple
// and correct since String is total over the value algebra.
func hashExpression(e Expression) uint32 {
	h := fnv.New32a()
	h.Write([]byte(e.String()))
	h.Write([]byte{byte(e.Kind())})
	return h.Sum32()
}
