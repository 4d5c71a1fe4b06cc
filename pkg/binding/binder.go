// Package binding turns plain Go functions into axon handlers whose
// parameters are resolved from the request by a resolve.Dispatcher.
//
//	handler, err := binder.Bind(
//		func(ctx axon.RequestContext, filter *Filter, page int) ([]Item, error) { ... },
//		"filter? @FromQuery",
//		"page = 1 @FromQuery",
//	)
//
// A leading axon.RequestContext parameter is passed through and takes no
// declaration. Every other parameter needs one, in order.
package binding

import (
	"fmt"
	"net/http"
	"reflect"

	"go.uber.org/zap"

	"github.com/toyz/axonresolve/internal/errors"
	"github.com/toyz/axonresolve/pkg/annotation"
	"github.com/toyz/axonresolve/pkg/axon"
	"github.com/toyz/axonresolve/pkg/resolve"
	"github.com/toyz/axonresolve/pkg/shape"
)

// ReturnType represents the return signature of a bound handler
type ReturnType int

const (
	ReturnTypeDataError     ReturnType = iota // (T, error)
	ReturnTypeResponseError                   // (*axon.Response, error)
	ReturnTypeError                           // error
	ReturnTypeData                            // T
	ReturnTypeNone                            // nothing
)

var (
	contextType  = reflect.TypeOf((*axon.RequestContext)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	responseType = reflect.TypeOf(&axon.Response{})
)

// Option configures a Binder
type Option func(*Binder)

// WithLogger sets the logger used when binding handlers
func WithLogger(logger *zap.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Binder builds handlers from functions and parameter declarations
type Binder struct {
	dispatcher *resolve.Dispatcher
	shapes     *shape.Catalog
	markers    *annotation.Registry
	logger     *zap.Logger
}

// NewBinder creates a Binder. Struct, map and slice parameter types are
// registered in shapes as they are bound.
func NewBinder(dispatcher *resolve.Dispatcher, shapes *shape.Catalog, markers *annotation.Registry, opts ...Option) *Binder {
	b := &Binder{
		dispatcher: dispatcher,
		shapes:     shapes,
		markers:    markers,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type boundParameter struct {
	arg    *resolve.Argument
	goType reflect.Type
}

// Bind validates handler against declarations and returns the wrapped handler.
// Every problem found is reported in a single error.
func (b *Binder) Bind(handler interface{}, declarations ...string) (axon.HandlerFunc, error) {
	fn := reflect.ValueOf(handler)
	if fn.Kind() != reflect.Func {
		return nil, errors.Newf(errors.RegistrationErrorCode, "handler must be a function, got %T", handler)
	}
	fnType := fn.Type()

	returnType, err := classifyReturn(fnType)
	if err != nil {
		return nil, err
	}

	first := 0
	passContext := fnType.NumIn() > 0 && fnType.In(0) == contextType
	if passContext {
		first = 1
	}

	if got := fnType.NumIn() - first; got != len(declarations) {
		return nil, errors.Newf(errors.RegistrationErrorCode,
			"handler %s takes %d resolvable parameter(s) but %d declaration(s) were given", fnType, got, len(declarations))
	}

	collected := errors.NewMultipleErrors()
	params := make([]boundParameter, 0, len(declarations))
	for i, decl := range declarations {
		goType := fnType.In(first + i)
		param, err := b.bindParameter(goType, decl)
		if err != nil {
			if coded, ok := err.(errors.CodedError); ok {
				collected.Add(coded)
			} else {
				collected.Add(errors.Wrap(errors.RegistrationErrorCode, err.Error(), err))
			}
			continue
		}
		params = append(params, param)
	}
	if !collected.IsEmpty() {
		return nil, collected
	}

	b.logger.Debug("handler bound",
		zap.String("handler", fnType.String()),
		zap.Int("parameters", len(params)),
		zap.Bool("pass_context", passContext),
	)

	return func(c axon.RequestContext) error {
		in := make([]reflect.Value, 0, fnType.NumIn())
		if passContext {
			in = append(in, reflect.ValueOf(&c).Elem())
		}
		for _, p := range params {
			value, err := b.dispatcher.Resolve(c, p.arg)
			if err != nil {
				if resolve.IsClientError(err) {
					return axon.NewHTTPError(http.StatusBadRequest, err.Error(), err)
				}
				return err
			}
			v, err := assign(value, p.goType)
			if err != nil {
				return fmt.Errorf("argument '%s': %w", p.arg.Name, err)
			}
			in = append(in, v)
		}
		return respond(c, returnType, fn.Call(in))
	}, nil
}

// MustBind is like Bind but panics on error
func (b *Binder) MustBind(handler interface{}, declarations ...string) axon.HandlerFunc {
	h, err := b.Bind(handler, declarations...)
	if err != nil {
		panic(err)
	}
	return h
}

func (b *Binder) bindParameter(goType reflect.Type, decl string) (boundParameter, error) {
	param, err := b.markers.ParseParameter(decl)
	if err != nil {
		return boundParameter{}, err
	}

	typeName, err := b.typeName(goType)
	if err != nil {
		return boundParameter{}, err
	}

	arg := param.Argument(typeName)
	if nullable(goType) {
		arg.Nullable = true
	}

	if !b.dispatcher.Supports(nil, arg) {
		return boundParameter{}, errors.Newf(errors.RegistrationErrorCode,
			"parameter '%s' carries no registered marker", arg.Name).
			WithSuggestion("add one of: " + fmt.Sprint(markerNames(b.dispatcher.Registry())))
	}

	return boundParameter{arg: arg, goType: goType}, nil
}

// typeName returns the catalog name for t, registering constructible shapes
func (b *Binder) typeName(t reflect.Type) (string, error) {
	base := t
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() == reflect.Interface {
		return "", nil
	}

	name := shape.NameOf(base)
	if _, ok := b.shapes.Scalar(name); ok {
		return name, nil
	}

	switch base.Kind() {
	case reflect.Struct:
	case reflect.Map, reflect.Slice, reflect.Array:
		// []string and friends are read as plain values
		if base.Name() == "" && !holdsStruct(base) {
			return "", nil
		}
	default:
		return name, nil
	}

	if err := b.shapes.RegisterType(name, base); err != nil {
		return "", err
	}
	return name, nil
}

func holdsStruct(t reflect.Type) bool {
	elem := t.Elem()
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	return elem.Kind() == reflect.Struct
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

func markerNames(reg *resolve.Registry) []string {
	names := make([]string, 0, reg.Len())
	for _, entry := range reg.Entries() {
		names = append(names, "@"+resolve.ShortName(entry.Marker))
	}
	return names
}

func classifyReturn(fnType reflect.Type) (ReturnType, error) {
	switch fnType.NumOut() {
	case 0:
		return ReturnTypeNone, nil
	case 1:
		if fnType.Out(0) == errorType {
			return ReturnTypeError, nil
		}
		return ReturnTypeData, nil
	case 2:
		if fnType.Out(1) != errorType {
			break
		}
		if fnType.Out(0) == responseType {
			return ReturnTypeResponseError, nil
		}
		return ReturnTypeDataError, nil
	}
	return 0, errors.Newf(errors.RegistrationErrorCode,
		"handler %s must return (T, error), (*axon.Response, error), error, T or nothing", fnType)
}
