// Package shape keeps the catalog of type names an argument may declare.
//
// A name either refers to a builtin scalar (string, int, bool, uuid.UUID, ...)
// or to a registered shape: a Go type values can be constructed into from a
// request body or a query mapping.
package shape

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"sort"
	"sync"
)

var (
	// ErrNilType is returned when a nil reflect.Type is registered.
	ErrNilType = errors.New("shape: nil reflect.Type provided")
	// ErrEmptyName is returned when a shape is registered without a name.
	ErrEmptyName = errors.New("shape: empty name provided")
)

// ConflictError reports a name already taken by another type
type ConflictError struct {
	Name      string
	Existing  string
	Attempted string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("shape for name '%s' already registered as %s, cannot register %s", e.Name, e.Existing, e.Attempted)
}

// Catalog maps declared type names to Go types
type Catalog struct {
	mu     sync.RWMutex
	shapes map[string]reflect.Type
}

// New creates a catalog knowing only the builtin scalars
func New() *Catalog {
	return &Catalog{
		shapes: make(map[string]reflect.Type),
	}
}

// Default is the process-wide catalog used when none is injected
var Default = New()

// Register adds T to the catalog under NameOf(T)
func Register[T any](c *Catalog) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return c.RegisterType(NameOf(t), t)
}

// MustRegister is like Register but panics on error
func MustRegister[T any](c *Catalog) {
	if err := Register[T](c); err != nil {
		panic(err)
	}
}

// RegisterType registers t under name. Pointer types are stored as their
// element type. Registering the same pair twice is a no-op.
func (c *Catalog) RegisterType(name string, t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if scalar, isBuiltin := BuiltinScalars[ResolveAlias(name)]; isBuiltin {
		if scalar.Type == t {
			return nil
		}
		return &ConflictError{Name: name, Existing: scalar.Type.String(), Attempted: t.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.shapes[name]; exists {
		if existing == t {
			return nil
		}
		return &ConflictError{Name: name, Existing: existing.String(), Attempted: t.String()}
	}

	c.shapes[name] = t
	return nil
}

// Lookup returns the Go type behind a declared name, resolving aliases
func (c *Catalog) Lookup(name string) (reflect.Type, bool) {
	if scalar, ok := c.Scalar(name); ok {
		return scalar.Type, true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	t, exists := c.shapes[name]
	return t, exists
}

// Constructible returns the type for name if it names a registered struct,
// map, slice or array shape. Builtin scalars are never constructible.
func (c *Catalog) Constructible(name string) (reflect.Type, bool) {
	if name == "" {
		return nil, false
	}

	c.mu.RLock()
	t, exists := c.shapes[name]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return t, true
	default:
		return nil, false
	}
}

// Scalar returns the builtin scalar for name, resolving aliases
func (c *Catalog) Scalar(name string) (Scalar, bool) {
	scalar, exists := BuiltinScalars[ResolveAlias(name)]
	return scalar, exists
}

// Canonical resolves aliases ("boolean" -> "bool"); other names are returned unchanged
func (c *Catalog) Canonical(name string) string {
	return ResolveAlias(name)
}

// Has reports whether name is known to the catalog
func (c *Catalog) Has(name string) bool {
	_, exists := c.Lookup(name)
	return exists
}

// List returns all registered shape names, sorted. Builtin scalars are not included.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.shapes))
	for name := range c.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset removes every registered shape, keeping the builtin scalars
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shapes = make(map[string]reflect.Type)
}

// NameOf returns the catalog name for t: "int", "uuid.UUID", "models.Filter".
// Pointers are unwrapped; unnamed composite types use their Go syntax.
func NameOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return path.Base(t.PkgPath()) + "." + t.Name()
}
