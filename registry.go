package classcommands

import "sort"

// DefaultRegistry is the package-level registry the router and
// registrar fall back to.
var DefaultRegistry = NewRegistry()

// Registry stores command bindings by name. It does not dispatch; the
// Router looks bindings up and the Registrar syncs them with Discord.
type Registry struct {
	bindings map[string]*Binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]*Binding)}
}

// Register adds a binding. Usually called from init() via MustBind.
func (r *Registry) Register(b *Binding) {
	r.bindings[b.Name] = b
}

// Get returns the binding with the given name, or nil.
func (r *Registry) Get(name string) *Binding {
	return r.bindings[name]
}

// All returns every registered binding, sorted by name.
func (r *Registry) All() []*Binding {
	list := make([]*Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Register binds a prototype and adds it to the default registry,
// panicking on a malformed command type.
func Register(name, description string, prototype Handler) *Binding {
	b := MustBind(name, description, prototype)
	DefaultRegistry.Register(b)
	return b
}
