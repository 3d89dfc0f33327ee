package value

// NativeType wraps a host-side resource a Native function hands back to
// the language without exposing its internals as a language value —
// a SQL database handle or an HTTP server handle (§4.12). Tag
// identifies what kind of resource it is (e.g. "sql-db",
// "http-server") for error messages and display; the payload
// itself is opaque to the evaluator.
type NativeType struct {
	Tag     string
	Payload interface{}
}

func (n *NativeType) Kind() Kind     { return KindNativeType }
func (n *NativeType) String() string { return "#native-type[" + n.Tag + "]" }
