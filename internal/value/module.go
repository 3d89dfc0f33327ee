package value

// Module is a namespace: a name (bound as *name* within its own
// environment, as the Rust original does) plus the environment of
// NativeFunctions/values it exposes, resolved via ns/name
// NamespacedSymbol lookups (§4.4, §4.12).
type Module struct {
	Name string
	Env  *Environment
}

func (m *Module) Kind() Kind     { return KindModule }
func (m *Module) String() string { return "#module[" + m.Name + "]" }

// NewModule builds a frozen namespace from a set of bindings.
func NewModule(name string, bindings map[string]Expression) *Module {
	env := NewRootEnvironment()
	env = env.Extend("*name*", String(name))
	for k, v := range bindings {
		env = env.Extend(k, v)
	}
	return &Module{Name: name, Env: env}
}
