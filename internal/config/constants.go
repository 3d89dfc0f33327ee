// Package config is the single source of truth for this language's
// constant tables: reader-syntax file extension, special-form and
// intrinsic names (kept here so internal/eval and documentation/tooling
// never have to duplicate the literal strings), and the ambient
// defaults (numeric precision, host-adapter timeouts, channel
// capacity) used when a caller doesn't specify one.
package config

import "time"

// SourceFileExt is the canonical extension for source files.
const SourceFileExt = ".wisp"

// SpecialForms lists every name core.go's intrinsics() binds that
// controls evaluation of its own arguments rather than evaluating them
// upfront (so tooling can tell "special form" from "ordinary call"
// without importing internal/eval).
var SpecialForms = []string{
	"if", "when", "and", "or",
	"def", "fn", "defn", "let", "do",
	"quote", "spawn",
}

// DefaultFloatPrecision is the significant-digit capacity of the
// float64 that backs a Float. Nothing reads it: a Float literal
// records the digit count it was written with (the lexer counts it),
// and arithmetic results carry precision 0.
const DefaultFloatPrecision = 17

// DefaultChannelCapacity is the buffer size `chan` creates when
// called with no explicit capacity argument; 0 means unbuffered
// (rendezvous), matching value.NewChannel's own zero-value meaning.
const DefaultChannelCapacity = 0

// DefaultHTTPTimeout bounds every client request made through the http
// module; there is no per-call override.
const DefaultHTTPTimeout = 30 * time.Second

// DefaultServerShutdownTimeout bounds how long `http/stop` waits for
// in-flight requests to finish; when it expires, http/stop raises an
// error effect and connections still active are not force-closed.
const DefaultServerShutdownTimeout = 5 * time.Second

// HostModuleNames lists the native adapter namespaces cmd/wisp binds
// into the root environment alongside the core intrinsics.
var HostModuleNames = []string{"http", "sql", "json", "yaml", "toml", "fs"}
