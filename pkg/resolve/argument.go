package resolve

// Argument describes one resolvable handler parameter. It is supplied by the
// host and only read by resolvers.
type Argument struct {
	Name string
	// Type is the declared type name as known to the shape catalog; empty
	// when the parameter declares no type.
	Type       string
	HasDefault bool
	Default    interface{}
	Nullable   bool
	Markers    []Marker
}

// MarkerTypes returns the types of the attached markers in declaration order
func (a *Argument) MarkerTypes() []MarkerType {
	types := make([]MarkerType, 0, len(a.Markers))
	for _, m := range a.Markers {
		if m != nil {
			types = append(types, m.MarkerType())
		}
	}
	return types
}
