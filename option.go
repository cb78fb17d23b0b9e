package classcommands

// Optional wraps a value together with whether it was explicitly given.
// It separates "not given" from a deliberate zero value, so a parameter
// whose default is "" or 0 stays distinguishable from one with no
// default at all.
type Optional[T any] struct {
	value T
	valid bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// IsSet reports whether a value was given.
func (o Optional[T]) IsSet() bool {
	return o.valid
}

// Option describes one command parameter: its wire name override,
// description, default value, and whether it should be autocompleted.
// It is a pure value holder; nothing is validated until the owning
// command type is bound.
type Option struct {
	// Name overrides the wire name derived from the field name.
	Name string

	// Description is shown in the Discord client next to the option.
	Description string

	// Default makes the parameter optional. The wrapped value must be
	// assignable to the field the Option is attached to.
	Default Optional[any]

	// Autocomplete marks the option for autocomplete interactions.
	Autocomplete bool
}
