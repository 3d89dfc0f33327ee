package value

import "strings"

// Clause is one pattern-matched arm of a Function: a fixed list of
// parameter patterns (symbols, literals, or destructuring Array/Map
// patterns, §4.6) and a body of expressions evaluated in sequence, the
// last of which is the clause's result.
type Clause struct {
	Params []Expression
	Body   []Expression
}

// Arity is the clause's fixed parameter count. The language has no
// rest/variadic parameters (§4.6 Non-goals), so arity alone is enough
// to pick a candidate clause before pattern matching runs.
func (c Clause) Arity() int { return len(c.Params) }

// Function is a closure: one or more pattern-matched clauses plus the
// environment captured at the point `fn` was evaluated (§4.7). Calling
// a Function tries each clause in order whose arity matches the call's
// argument count, taking the first whose patterns match.
type Function struct {
	Name    string // set by defn for error messages and display; "" for anonymous fn
	Env     *Environment
	Clauses []Clause
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	var b strings.Builder
	b.WriteString("(fn ")
	if f.Name != "" {
		b.WriteString(f.Name)
		b.WriteByte(' ')
	}
	for i, c := range f.Clauses {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		for j, p := range c.Params {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.String())
		}
		b.WriteByte(']')
	}
	b.WriteByte(')')
	return b.String()
}
