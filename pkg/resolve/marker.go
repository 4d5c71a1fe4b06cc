// Package resolve maps parameter markers to the resolvers that produce
// argument values from an inbound request.
//
// A Registry is built once from every known Resolver and rejects two
// resolvers claiming the same marker. A Dispatcher then picks, for each
// argument, the resolver of the first registered marker the argument carries.
package resolve

import "strings"

// MarkerType identifies a kind of marker. It is the registry key.
type MarkerType string

// Marker is a declarative, immutable annotation attached to an argument.
// MarkerType must be callable on the zero value.
type Marker interface {
	MarkerType() MarkerType
}

const (
	FromBodyMarker  MarkerType = "github.com/toyz/axonresolve/pkg/resolve.FromBody"
	FromQueryMarker MarkerType = "github.com/toyz/axonresolve/pkg/resolve.FromQuery"
)

// Format is a request body serialization format
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"

	DefaultFormat = FormatJSON
)

// Formats lists every format FromBody accepts
var Formats = []Format{FormatJSON, FormatXML, FormatYAML, FormatCSV}

// Valid reports whether f is one of Formats. The empty format is valid.
func (f Format) Valid() bool {
	if f == "" {
		return true
	}
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// FromBody marks an argument deserialized from the request body
type FromBody struct {
	Format Format
}

// MarkerType implements Marker
func (FromBody) MarkerType() MarkerType { return FromBodyMarker }

// EffectiveFormat returns the declared format or DefaultFormat
func (m FromBody) EffectiveFormat() Format {
	if m.Format == "" {
		return DefaultFormat
	}
	return m.Format
}

// FromQuery marks an argument read from the query string.
//
// Name overrides the lookup key. EnforceTypes turns on strict type checks
// while denormalizing complex shapes; it is off unless set.
type FromQuery struct {
	Name         string
	EnforceTypes bool
}

// MarkerType implements Marker
func (FromQuery) MarkerType() MarkerType { return FromQueryMarker }

// ShortName returns the last segment of a marker type ("FromBody")
func ShortName(t MarkerType) string {
	name := string(t)
	if i := strings.LastIndexByte(name, '/'); i != -1 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i != -1 {
		name = name[i+1:]
	}
	return name
}
