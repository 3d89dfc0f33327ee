package value

import "strings"

// Effect is the language's only error/non-local-exit mechanism (§3.4,
// §4.8): raising one aborts the enclosing evaluation and propagates up
// as the Err side of the evaluator's Ok(env, value) | Err(effect)
// result, rather than as a Go panic.
type Effect struct {
	Env  *Environment
	Tag  string
	Args []Expression
}

// Well-known effect tags: the ones the evaluator and its built-ins
// raise. The language has no form for raising an effect from user code.
const (
	TagTokenizeError = "tokenize-error"
	TagParseError    = "parse-error"
	TagError         = "error"
	TagArity         = "arity"
	TagNotCallable   = "not callable"
	TagType          = "type"
	TagUnbound       = "unbound"
	TagAssert        = "assert"
	TagCancelled     = "cancelled"
)

// New builds an Effect. env may be nil when raised before an
// environment exists (e.g. a tokenize-error encountered before
// evaluation has begun).
func New(env *Environment, tag string, args ...Expression) *Effect {
	return &Effect{Env: env, Tag: tag, Args: args}
}

// Errorf raises a TagError effect with a single String argument.
func Errorf(env *Environment, message string) *Effect {
	return New(env, TagError, String(message))
}

// Effect deliberately does not implement Expression (§3.4): it is the
// evaluator's error channel, not a value that can be bound, compared,
// or stored in a collection.
func (e *Effect) String() string {
	var b strings.Builder
	b.WriteString("#effect[")
	b.WriteString(e.Tag)
	for _, a := range e.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Message renders the effect the way the REPL prints an uncaught one:
// an effect whose only argument is a String renders as that string
// alone; any other renders as String() does, the tag followed by its
// arguments' display forms.
func (e *Effect) Message() string {
	if len(e.Args) == 1 {
		if s, ok := e.Args[0].(String); ok {
			return string(s)
		}
	}
	return e.String()
}
