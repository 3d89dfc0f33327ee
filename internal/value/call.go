package value

import "strings"

// Call is an unevaluated function application: (f a b c). Both the
// parser and `quote`/`read-string` produce Call nodes; the evaluator
// is what turns one into a value by evaluating Fn and Args and
// dispatching on the result (§4.5).
type Call struct {
	Fn   Expression
	Args *PersistentVector
}

func NewCall(fn Expression, args ...Expression) Call {
	return Call{Fn: fn, Args: VectorFrom(args)}
}

func (c Call) Kind() Kind { return KindCall }

func (c Call) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(c.Fn.String())
	c.Args.ForEach(func(e Expression) {
		b.WriteByte(' ')
		b.WriteString(e.String())
	})
	b.WriteByte(')')
	return b.String()
}

func (c Call) ArgSlice() []Expression { return c.Args.ToSlice() }

// Quote wraps an expression so the evaluator returns it unevaluated
// (§4.5). Quoting a Call quotes the whole application, not just its
// head — `'(1 2)` is the Call{Fn: 1, Args: [2]}, not a Call to 1.
type Quote struct{ Expr Expression }

func (q Quote) Kind() Kind     { return KindQuote }
func (q Quote) String() string { return "'" + q.Expr.String() }

// Deref reads through an Atom: @a evaluates a then returns its current
// value (§4.9).
type Deref struct{ Expr Expression }

func (d Deref) Kind() Kind     { return KindDeref }
func (d Deref) String() string { return "@" + d.Expr.String() }
