package value

// PersistentVector is a 32-way branching trie with a tail buffer for
// O(1)-amortized append. Every mutating operation returns a new vector
// sharing unmodified structure with the original, which is how Array
// achieves immutability without copying on every update.
type PersistentVector struct {
	count int
	shift uint
	root  *pvNode
	tail  []Expression
}

type pvNode struct {
	array []interface{} // either []Expression (leaf) or []*pvNode (branch)
}

const pvBits = 5
const pvWidth = 1 << pvBits // 32
const pvMask = pvWidth - 1

// EmptyVector returns the zero-length vector.
func EmptyVector() *PersistentVector {
	return &PersistentVector{shift: pvBits, root: &pvNode{array: make([]interface{}, 0)}}
}

// VectorFrom builds a vector from a slice, preserving order.
func VectorFrom(items []Expression) *PersistentVector {
	v := EmptyVector()
	for _, it := range items {
		v = v.Append(it)
	}
	return v
}

func (v *PersistentVector) Len() int { return v.count }

func (v *PersistentVector) tailOffset() int {
	if v.count < pvWidth {
		return 0
	}
	return ((v.count - 1) >> pvBits) << pvBits
}

// Get returns the element at i, or (nil, false) if i is out of range.
func (v *PersistentVector) Get(i int) (Expression, bool) {
	if i < 0 || i >= v.count {
		return nil, false
	}
	if i >= v.tailOffset() {
		return v.tail[i-v.tailOffset()], true
	}
	node := v.root
	for level := v.shift; level > 0; level -= pvBits {
		idx := (i >> level) & pvMask
		node = node.array[idx].(*pvNode)
	}
	return node.array[i&pvMask].(Expression), true
}

// Append returns a new vector with item added to the end.
func (v *PersistentVector) Append(item Expression) *PersistentVector {
	if len(v.tail) < pvWidth {
		newTail := make([]Expression, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = item
		return &PersistentVector{count: v.count + 1, shift: v.shift, root: v.root, tail: newTail}
	}

	tailNode := &pvNode{array: expressionsToIface(v.tail)}
	newShift := v.shift
	var newRoot *pvNode
	if (v.count >> pvBits) > (1 << newShift) {
		newRoot = &pvNode{array: []interface{}{v.root, newPath(v.shift, tailNode)}}
		newShift += pvBits
	} else {
		newRoot = pushTail(v.count, v.shift, v.root, tailNode)
	}
	return &PersistentVector{
		count: v.count + 1,
		shift: newShift,
		root:  newRoot,
		tail:  []Expression{item},
	}
}

func newPath(level uint, node *pvNode) *pvNode {
	if level == 0 {
		return node
	}
	return &pvNode{array: []interface{}{newPath(level-pvBits, node)}}
}

func pushTail(count int, level uint, parent, tailNode *pvNode) *pvNode {
	newArray := make([]interface{}, len(parent.array))
	copy(newArray, parent.array)
	if level == pvBits {
		newArray = append(newArray, tailNode)
		return &pvNode{array: newArray}
	}
	subIdx := ((count - 1) >> level) & pvMask
	if subIdx < len(parent.array) {
		child := parent.array[subIdx].(*pvNode)
		newArray[subIdx] = pushTail(count, level-pvBits, child, tailNode)
		return &pvNode{array: newArray}
	}
	newArray = append(newArray, newPath(level-pvBits, tailNode))
	return &pvNode{array: newArray}
}

// Update returns a new vector with index i replaced by item.
func (v *PersistentVector) Update(i int, item Expression) (*PersistentVector, bool) {
	if i < 0 || i >= v.count {
		return nil, false
	}
	if i >= v.tailOffset() {
		newTail := make([]Expression, len(v.tail))
		copy(newTail, v.tail)
		newTail[i-v.tailOffset()] = item
		return &PersistentVector{count: v.count, shift: v.shift, root: v.root, tail: newTail}, true
	}
	newRoot := doAssoc(v.shift, v.root, i, item)
	return &PersistentVector{count: v.count, shift: v.shift, root: newRoot, tail: v.tail}, true
}

func doAssoc(level uint, node *pvNode, i int, item Expression) *pvNode {
	newArray := make([]interface{}, len(node.array))
	copy(newArray, node.array)
	if level == 0 {
		newArray[i&pvMask] = item
		return &pvNode{array: newArray}
	}
	idx := (i >> level) & pvMask
	newArray[idx] = doAssoc(level-pvBits, node.array[idx].(*pvNode), i, item)
	return &pvNode{array: newArray}
}

// Slice returns the elements in [lo, hi) as a new vector. Implemented
// by rebuild rather than structural sharing; a log-structured slice
// would reuse interior nodes but isn't needed at this scale.
func (v *PersistentVector) Slice(lo, hi int) *PersistentVector {
	if lo < 0 {
		lo = 0
	}
	if hi > v.count {
		hi = v.count
	}
	if lo >= hi {
		return EmptyVector()
	}
	out := make([]Expression, 0, hi-lo)
	for i := lo; i < hi; i++ {
		e, _ := v.Get(i)
		out = append(out, e)
	}
	return VectorFrom(out)
}

// Prepend returns a new vector with item inserted at index 0. This is
// O(n): there is no structural-sharing trick for prepend on a
// tail-optimized trie, so it rebuilds.
func (v *PersistentVector) Prepend(item Expression) *PersistentVector {
	out := make([]Expression, 0, v.count+1)
	out = append(out, item)
	out = append(out, v.ToSlice()...)
	return VectorFrom(out)
}

// Concat returns a new vector with other's elements appended.
func (v *PersistentVector) Concat(other *PersistentVector) *PersistentVector {
	out := v
	other.ForEach(func(e Expression) {
		out = out.Append(e)
	})
	return out
}

// ToSlice materializes the vector into a plain Go slice.
func (v *PersistentVector) ToSlice() []Expression {
	out := make([]Expression, 0, v.count)
	v.ForEach(func(e Expression) { out = append(out, e) })
	return out
}

// ForEach calls fn for every element in order.
func (v *PersistentVector) ForEach(fn func(Expression)) {
	for i := 0; i < v.tailOffset(); i++ {
		e, _ := v.Get(i)
		fn(e)
	}
	for _, e := range v.tail {
		fn(e)
	}
}

func expressionsToIface(items []Expression) []interface{} {
	out := make([]interface{}, len(items))
	for i, e := range items {
		out[i] = e
	}
	return out
}
