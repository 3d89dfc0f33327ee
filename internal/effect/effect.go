// Package effect renders value.Effect for the REPL/CLI boundary and
// re-exports the well-known tag constants. The Effect type itself
// lives in internal/value (see that package's doc comment) since a
// Function closure captures an Environment and an Effect carries one
// too — keeping them apart would just require importing value back
// into value. This package is the "effect protocol" surface: how an
// uncaught effect gets presented to a human, in red.
package effect

import (
	"fmt"

	"github.com/wisplang/wisp/internal/value"
)

const (
	TagTokenizeError = value.TagTokenizeError
	TagParseError    = value.TagParseError
	TagError         = value.TagError
	TagArity         = value.TagArity
	TagNotCallable   = value.TagNotCallable
	TagType          = value.TagType
	TagUnbound       = value.TagUnbound
	TagAssert        = value.TagAssert
	TagCancelled     = value.TagCancelled
)

const (
	ansiRed   = "\x1b[38;2;211;47;47m"
	ansiReset = "\x1b[0m"
)

// Render formats an uncaught effect in red, the way the REPL reports
// an evaluation that terminated in Err rather than Ok.
func Render(e *value.Effect) string {
	return fmt.Sprintf("%s%s%s", ansiRed, e.Message(), ansiReset)
}
