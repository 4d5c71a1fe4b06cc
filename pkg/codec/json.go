package codec

import (
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

// JSONEngine names a JSON implementation
type JSONEngine string

const (
	EngineGoJSON   JSONEngine = "go-json"
	EngineSonic    JSONEngine = "sonic"
	EngineJSONIter JSONEngine = "jsoniter"

	DefaultJSONEngine = EngineGoJSON
)

// JSON is the pair of functions an engine provides
type JSON interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type goJSON struct{}

func (goJSON) Marshal(v interface{}) ([]byte, error)      { return gojson.Marshal(v) }
func (goJSON) Unmarshal(data []byte, v interface{}) error { return gojson.Unmarshal(data, v) }

type sonicJSON struct{}

func (sonicJSON) Marshal(v interface{}) ([]byte, error)      { return sonic.Marshal(v) }
func (sonicJSON) Unmarshal(data []byte, v interface{}) error { return sonic.Unmarshal(data, v) }

var jsoniterStd = jsoniter.ConfigCompatibleWithStandardLibrary

type jsoniterJSON struct{}

func (jsoniterJSON) Marshal(v interface{}) ([]byte, error)      { return jsoniterStd.Marshal(v) }
func (jsoniterJSON) Unmarshal(data []byte, v interface{}) error { return jsoniterStd.Unmarshal(data, v) }

// NewJSON returns the implementation for engine. The empty engine selects
// DefaultJSONEngine.
func NewJSON(engine JSONEngine) (JSON, error) {
	switch engine {
	case "", EngineGoJSON:
		return goJSON{}, nil
	case EngineSonic:
		return sonicJSON{}, nil
	case EngineJSONIter:
		return jsoniterJSON{}, nil
	default:
		return nil, errors.Newf("codec: unknown json engine %q", engine)
	}
}
