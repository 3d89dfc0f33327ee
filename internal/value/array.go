package value

import "strings"

// Array is an immutable, persistently-shared sequence (§3.2).
type Array struct{ Vec *PersistentVector }

func NewArray(items ...Expression) Array { return Array{Vec: VectorFrom(items)} }
func EmptyArray() Array                  { return Array{Vec: EmptyVector()} }

func (a Array) Kind() Kind { return KindArray }

func (a Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	a.Vec.ForEach(func(e Expression) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(e.String())
	})
	b.WriteByte(']')
	return b.String()
}

func (a Array) Len() int                       { return a.Vec.Len() }
func (a Array) Get(i int) (Expression, bool)    { return a.Vec.Get(i) }
func (a Array) Append(e Expression) Array       { return Array{Vec: a.Vec.Append(e)} }
func (a Array) Prepend(e Expression) Array      { return Array{Vec: a.Vec.Prepend(e)} }
func (a Array) Concat(o Array) Array            { return Array{Vec: a.Vec.Concat(o.Vec)} }
func (a Array) Slice(lo, hi int) Array          { return Array{Vec: a.Vec.Slice(lo, hi)} }
func (a Array) ToSlice() []Expression           { return a.Vec.ToSlice() }
func (a Array) ForEach(fn func(Expression))     { a.Vec.ForEach(fn) }
