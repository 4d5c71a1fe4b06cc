package resolve

import (
	"reflect"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/toyz/axonresolve/pkg/axon"
)

type mockDeserializer struct {
	mock.Mock
}

func (m *mockDeserializer) Deserialize(content []byte, target reflect.Type, format Format) (interface{}, error) {
	args := m.Called(content, target, format)
	return args.Get(0), args.Error(1)
}

type mockDenormalizer struct {
	mock.Mock
}

func (m *mockDenormalizer) Denormalize(data map[string]interface{}, target reflect.Type, opts DenormalizeOptions) (interface{}, error) {
	args := m.Called(data, target, opts)
	return args.Get(0), args.Error(1)
}

const (
	alphaMarkerType MarkerType = "github.com/toyz/axonresolve/pkg/resolve.alphaMarker"
	betaMarkerType  MarkerType = "github.com/toyz/axonresolve/pkg/resolve.betaMarker"
	gammaMarkerType MarkerType = "github.com/toyz/axonresolve/pkg/resolve.gammaMarker"
)

type alphaMarker struct{}

func (alphaMarker) MarkerType() MarkerType { return alphaMarkerType }

type betaMarker struct{}

func (betaMarker) MarkerType() MarkerType { return betaMarkerType }

type gammaMarker struct{}

func (gammaMarker) MarkerType() MarkerType { return gammaMarkerType }

// recorder counts invocations and returns a fixed result
type recorder struct {
	calls  atomic.Int32
	value  interface{}
	err    error
	marker MarkerType
}

func (r *recorder) SupportedMarker() MarkerType { return r.marker }

func (r *recorder) Resolve(req axon.RequestContext, arg *Argument, marker Marker) (interface{}, error) {
	r.calls.Add(1)
	return r.value, r.err
}

type alphaResolver struct{ recorder }

func newAlphaResolver(value interface{}) *alphaResolver {
	return &alphaResolver{recorder{value: value, marker: alphaMarkerType}}
}

type betaResolver struct{ recorder }

func newBetaResolver(value interface{}) *betaResolver {
	return &betaResolver{recorder{value: value, marker: betaMarkerType}}
}

// anotherAlphaResolver claims the same marker as alphaResolver
type anotherAlphaResolver struct{ recorder }

func newAnotherAlphaResolver() *anotherAlphaResolver {
	return &anotherAlphaResolver{recorder{marker: alphaMarkerType}}
}

type gammaResolver struct{ recorder }

func newGammaResolver() *gammaResolver {
	return &gammaResolver{recorder{marker: gammaMarkerType}}
}
