// Package codec decodes request bodies and query mappings into Go values.
package codec

import (
	"encoding/xml"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/toyz/axonresolve/pkg/resolve"
)

// Option configures a Serializer
type Option func(*Serializer) error

// WithJSONEngine selects the JSON implementation
func WithJSONEngine(engine JSONEngine) Option {
	return func(s *Serializer) error {
		impl, err := NewJSON(engine)
		if err != nil {
			return err
		}
		s.json = impl
		return nil
	}
}

// WithCSVSeparator sets the CSV field delimiter
func WithCSVSeparator(sep rune) Option {
	return func(s *Serializer) error {
		s.csvSeparator = sep
		return nil
	}
}

// Serializer decodes request bodies in every resolve.Format
type Serializer struct {
	json         JSON
	csvSeparator rune
}

var _ resolve.Deserializer = (*Serializer)(nil)

// NewSerializer creates a Serializer using go-json and ',' by default
func NewSerializer(opts ...Option) (*Serializer, error) {
	s := &Serializer{
		json:         goJSON{},
		csvSeparator: ',',
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Deserialize decodes content into a new value of target and returns a
// pointer to it
func (s *Serializer) Deserialize(content []byte, target reflect.Type, format resolve.Format) (interface{}, error) {
	ptr := reflect.New(target)

	var err error
	switch format {
	case resolve.FormatJSON, "":
		err = s.json.Unmarshal(content, ptr.Interface())
	case resolve.FormatYAML:
		err = yaml.Unmarshal(content, ptr.Interface())
	case resolve.FormatXML:
		err = xml.Unmarshal(content, ptr.Interface())
	case resolve.FormatCSV:
		err = s.decodeCSV(content, ptr.Interface(), target)
	default:
		return nil, newUnsupportedFormatError(format)
	}
	if err != nil {
		return nil, newDeserializationError(format, target, err)
	}

	return ptr.Interface(), nil
}

// Marshal encodes v as JSON with the configured engine
func (s *Serializer) Marshal(v interface{}) ([]byte, error) {
	return s.json.Marshal(v)
}
