// Package resolvefx wires the resolution engine into an fx application.
//
// Resolvers are discovered through the "resolvers" value group: provide
// them with AsResolver and the registry is validated once at startup from
// every member, while the dispatcher receives the same instances.
//
//	fx.New(
//		resolvefx.Module(),
//		fx.Provide(resolvefx.AsResolver(NewCookieResolver)),
//	)
package resolvefx

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/toyz/axonresolve/pkg/annotation"
	"github.com/toyz/axonresolve/pkg/binding"
	"github.com/toyz/axonresolve/pkg/codec"
	"github.com/toyz/axonresolve/pkg/resolve"
	"github.com/toyz/axonresolve/pkg/shape"
)

const (
	resolverGroup = `group:"resolvers"`
	observerGroup = `group:"resolution_observers"`
)

// AsResolver annotates a constructor so its result joins the resolver group
func AsResolver(constructor interface{}) interface{} {
	return fx.Annotate(
		constructor,
		fx.As(new(resolve.Resolver)),
		fx.ResultTags(resolverGroup),
	)
}

// AsObserver annotates a constructor so its result is notified of every
// dispatch
func AsObserver(constructor interface{}) interface{} {
	return fx.Annotate(
		constructor,
		fx.As(new(resolve.Observer)),
		fx.ResultTags(observerGroup),
	)
}

// RegistryParams are the inputs of NewRegistry
type RegistryParams struct {
	fx.In

	Resolvers []resolve.Resolver `group:"resolvers"`
	Logger    *zap.Logger        `optional:"true"`
}

// NewRegistry builds the registry from the resolver group. A duplicate
// claim fails application startup.
func NewRegistry(p RegistryParams) (*resolve.Registry, error) {
	reg, err := resolve.NewRegistry(p.Resolvers...)
	if err != nil {
		return nil, err
	}

	if p.Logger != nil {
		for _, entry := range reg.Entries() {
			p.Logger.Info("meta resolver registered",
				zap.String("marker", string(entry.Marker)),
				zap.String("resolver", resolve.ResolverName(entry.Resolver, true)),
			)
		}
	}
	return reg, nil
}

// DispatcherParams are the inputs of NewDispatcher
type DispatcherParams struct {
	fx.In

	Registry  *resolve.Registry
	Resolvers []resolve.Resolver `group:"resolvers"`
	Observers []resolve.Observer `group:"resolution_observers"`
	Logger    *zap.Logger        `optional:"true"`
}

// NewDispatcher uses the resolver group as its live instances
func NewDispatcher(p DispatcherParams) *resolve.Dispatcher {
	opts := make([]resolve.DispatcherOption, 0, len(p.Observers)+1)
	if p.Logger != nil {
		opts = append(opts, resolve.WithLogger(p.Logger))
	}
	for _, observer := range p.Observers {
		if observer != nil {
			opts = append(opts, resolve.WithObserver(observer))
		}
	}
	return resolve.NewDispatcher(p.Registry, p.Resolvers, opts...)
}

// BinderParams are the inputs of NewBinder
type BinderParams struct {
	fx.In

	Dispatcher *resolve.Dispatcher
	Shapes     *shape.Catalog
	Markers    *annotation.Registry
	Logger     *zap.Logger `optional:"true"`
}

func NewBinder(p BinderParams) *binding.Binder {
	var opts []binding.Option
	if p.Logger != nil {
		opts = append(opts, binding.WithLogger(p.Logger))
	}
	return binding.NewBinder(p.Dispatcher, p.Shapes, p.Markers, opts...)
}

func newSerializer(opts []codec.Option) func() (*codec.Serializer, error) {
	return func() (*codec.Serializer, error) {
		return codec.NewSerializer(opts...)
	}
}

func asDeserializer(s *codec.Serializer) resolve.Deserializer { return s }

func asDenormalizer(d *codec.QueryDenormalizer) resolve.Denormalizer { return d }

func asShapeCatalog(c *shape.Catalog) resolve.ShapeCatalog { return c }

// Module provides the codec, shape catalog, marker registry, the body and
// query resolvers, the validated registry, the dispatcher and the binder
func Module(opts ...codec.Option) fx.Option {
	return fx.Module("axonresolve",
		fx.Provide(
			newSerializer(opts),
			codec.NewQueryDenormalizer,
			shape.New,
			annotation.NewRegistry,
			asDeserializer,
			asDenormalizer,
			asShapeCatalog,
			AsResolver(resolve.NewBodyResolver),
			AsResolver(resolve.NewQueryResolver),
			NewRegistry,
			NewDispatcher,
			NewBinder,
		),
	)
}

// WithZapLogger routes fx lifecycle events through the application logger
func WithZapLogger() fx.Option {
	return fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	})
}
