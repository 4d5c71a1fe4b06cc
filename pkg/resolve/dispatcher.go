package resolve

import (
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/toyz/axonresolve/pkg/axon"
)

// Outcome classifies a single dispatch
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeAbsent   Outcome = "absent"
	OutcomeError    Outcome = "error"
)

// Observer is notified after every dispatch
type Observer interface {
	ObserveResolution(marker MarkerType, outcome Outcome, elapsed time.Duration)
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for per-dispatch debug lines
func WithLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers an observer for dispatch outcomes
func WithObserver(observer Observer) DispatcherOption {
	return func(d *Dispatcher) {
		if observer != nil {
			d.observers = append(d.observers, observer)
		}
	}
}

// Dispatcher selects and invokes the resolver for an argument.
//
// The resolver instances are indexed by type on first dispatch. The index is
// built exactly once and only read afterwards, so a Dispatcher is safe for
// concurrent use.
type Dispatcher struct {
	registry  *Registry
	instances []Resolver
	logger    *zap.Logger
	observers []Observer

	indexOnce sync.Once
	index     map[reflect.Type]Resolver
}

// NewDispatcher creates a dispatcher over reg using the given live instances
func NewDispatcher(reg *Registry, instances []Resolver, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:  reg,
		instances: instances,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher consults
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Supports reports whether at least one marker on arg is registered
func (d *Dispatcher) Supports(req axon.RequestContext, arg *Argument) bool {
	_, ok := d.selectMarker(arg)
	return ok
}

// Resolve produces the value for arg using the resolver of the first
// registered marker in declaration order. Errors from the resolver are
// returned unchanged.
//
// Resolve panics with an *InvariantError if Supports would have returned
// false or if the selected resolver type has no live instance.
func (d *Dispatcher) Resolve(req axon.RequestContext, arg *Argument) (interface{}, error) {
	marker, ok := d.selectMarker(arg)
	if !ok {
		panic(newInvariantError(arg, "Unable to resolve value: argument '%s' carries no registered marker", argumentName(arg)))
	}

	markerType := marker.MarkerType()
	resolverType, _ := d.registry.Lookup(markerType)
	resolver, ok := d.instance(resolverType)
	if !ok {
		panic(newInvariantError(arg, "Unable to resolve value: no live instance of %s for marker %s",
			ResolverName(resolverType, true), markerType))
	}

	start := time.Now()
	value, err := resolver.Resolve(req, arg, marker)
	elapsed := time.Since(start)

	outcome := OutcomeResolved
	switch {
	case err != nil:
		outcome = OutcomeError
	case value == nil:
		outcome = OutcomeAbsent
	}

	d.logger.Debug("argument resolved",
		zap.String("argument", arg.Name),
		zap.String("marker", ShortName(markerType)),
		zap.String("resolver", ResolverName(resolverType, false)),
		zap.String("outcome", string(outcome)),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	for _, observer := range d.observers {
		observer.ObserveResolution(markerType, outcome, elapsed)
	}

	return value, err
}

func (d *Dispatcher) selectMarker(arg *Argument) (Marker, bool) {
	if arg == nil || d.registry == nil {
		return nil, false
	}
	for _, m := range arg.Markers {
		if m != nil && d.registry.Has(m.MarkerType()) {
			return m, true
		}
	}
	return nil, false
}

func (d *Dispatcher) instance(t reflect.Type) (Resolver, bool) {
	d.indexOnce.Do(d.buildIndex)
	r, ok := d.index[t]
	return r, ok
}

func (d *Dispatcher) buildIndex() {
	index := make(map[reflect.Type]Resolver, len(d.instances))
	for _, r := range d.instances {
		if r == nil {
			continue
		}
		index[TypeOf(r)] = r
	}
	d.index = index
}
