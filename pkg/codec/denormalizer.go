package codec

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/toyz/axonresolve/pkg/resolve"
)

// QueryTag is the struct tag naming the query key of a field
const QueryTag = "query"

// QueryDenormalizer builds shapes from the nested query mapping
type QueryDenormalizer struct{}

var _ resolve.Denormalizer = (*QueryDenormalizer)(nil)

// NewQueryDenormalizer creates a QueryDenormalizer
func NewQueryDenormalizer() *QueryDenormalizer {
	return &QueryDenormalizer{}
}

// Denormalize decodes data into a new value of target and returns a pointer
// to it. Fields are matched by their query tag, then by name ignoring case.
// Text values are converted to the field type unless opts.EnforceTypes is set.
// It returns nil when no field of target was present in data.
func (d *QueryDenormalizer) Denormalize(data map[string]interface{}, target reflect.Type, opts resolve.DenormalizeOptions) (interface{}, error) {
	if len(data) == 0 {
		return nil, nil
	}

	ptr := reflect.New(target)
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(decoderConfig(ptr.Interface(), QueryTag, !opts.EnforceTypes, &md))
	if err != nil {
		return nil, newDenormalizationError(target, err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, newDenormalizationError(target, err)
	}

	if target.Kind() == reflect.Struct && len(md.Keys) == 0 {
		return nil, nil
	}
	return ptr.Interface(), nil
}

func decoderConfig(result interface{}, tag string, weak bool, md *mapstructure.Metadata) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		Result:           result,
		TagName:          tag,
		WeaklyTypedInput: weak,
		Metadata:         md,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}
}
