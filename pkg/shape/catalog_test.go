package shape

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Filter struct {
	Name  string
	Limit int
}

type Tags []Filter

type Code string

func TestCatalog_Register(t *testing.T) {
	catalog := New()

	err := Register[Filter](catalog)
	require.NoError(t, err)

	// Same pair twice is fine
	err = Register[Filter](catalog)
	assert.NoError(t, err)

	// Another type under the same name is a conflict
	err = catalog.RegisterType("shape.Filter", reflect.TypeOf(Code("")))
	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "shape.Filter", conflict.Name)
	assert.Contains(t, err.Error(), "already registered as shape.Filter")
	assert.Contains(t, err.Error(), "cannot register shape.Code")
}

func TestCatalog_RegisterTypeValidation(t *testing.T) {
	catalog := New()

	assert.ErrorIs(t, catalog.RegisterType("x", nil), ErrNilType)
	assert.ErrorIs(t, catalog.RegisterType("", reflect.TypeOf(Filter{})), ErrEmptyName)

	// Builtin names cannot be taken by other types
	err := catalog.RegisterType("int", reflect.TypeOf(Filter{}))
	assert.Error(t, err)
	assert.NoError(t, catalog.RegisterType("integer", reflect.TypeOf(0)))

	// Pointers are stored as their element type
	require.NoError(t, catalog.RegisterType("filter", reflect.TypeOf(&Filter{})))
	got, ok := catalog.Lookup("filter")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Filter{}), got)
}

func TestCatalog_Lookup(t *testing.T) {
	catalog := New()

	_, exists := catalog.Lookup("shape.Filter")
	assert.False(t, exists)

	MustRegister[Filter](catalog)

	got, exists := catalog.Lookup("shape.Filter")
	assert.True(t, exists)
	assert.Equal(t, reflect.TypeOf(Filter{}), got)

	// Builtins
	got, exists = catalog.Lookup("int")
	assert.True(t, exists)
	assert.Equal(t, reflect.TypeOf(0), got)

	// Aliases
	got, exists = catalog.Lookup("UUID")
	assert.True(t, exists)
	assert.Equal(t, reflect.TypeOf(uuid.UUID{}), got)
}

func TestCatalog_Constructible(t *testing.T) {
	catalog := New()
	MustRegister[Filter](catalog)
	MustRegister[Tags](catalog)
	MustRegister[Code](catalog)
	require.NoError(t, catalog.RegisterType("Attributes", reflect.TypeOf(map[string]string{})))

	tests := []struct {
		name string
		want bool
	}{
		{"shape.Filter", true},
		{"shape.Tags", true},
		{"Attributes", true},
		{"shape.Code", false},
		{"string", false},
		{"uuid.UUID", false},
		{"DoesNotExist", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := catalog.Constructible(tt.name)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCatalog_Canonical(t *testing.T) {
	catalog := New()

	assert.Equal(t, "bool", catalog.Canonical("boolean"))
	assert.Equal(t, "bool", catalog.Canonical("bool"))
	assert.Equal(t, "float64", catalog.Canonical("double"))
	assert.Equal(t, "shape.Filter", catalog.Canonical("shape.Filter"))
}

func TestCatalog_ListAndReset(t *testing.T) {
	catalog := New()
	assert.Empty(t, catalog.List())

	MustRegister[Tags](catalog)
	MustRegister[Filter](catalog)
	assert.Equal(t, []string{"shape.Filter", "shape.Tags"}, catalog.List())
	assert.True(t, catalog.Has("shape.Tags"))
	assert.True(t, catalog.Has("string"))

	catalog.Reset()
	assert.Empty(t, catalog.List())
	assert.False(t, catalog.Has("shape.Tags"))
	assert.True(t, catalog.Has("string"))
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "int", NameOf(reflect.TypeOf(0)))
	assert.Equal(t, "uuid.UUID", NameOf(reflect.TypeOf(uuid.UUID{})))
	assert.Equal(t, "shape.Filter", NameOf(reflect.TypeOf(&Filter{})))
	assert.Equal(t, "map[string]int", NameOf(reflect.TypeOf(map[string]int{})))
	assert.Equal(t, "", NameOf(nil))
}

func TestBuiltinScalars_Parse(t *testing.T) {
	catalog := New()

	tests := []struct {
		typeName string
		raw      string
		want     interface{}
		wantErr  bool
	}{
		{"int", "42", 42, false},
		{"int", "abc", nil, true},
		{"int64", "9000000000", int64(9000000000), false},
		{"int32", "12", int32(12), false},
		{"uint", "7", uint(7), false},
		{"float", "1.5", 1.5, false},
		{"float32", "2.5", float32(2.5), false},
		{"bool", "true", true, false},
		{"string", "hello", "hello", false},
		{"UUID", "not-a-uuid", nil, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.typeName, tt.raw), func(t *testing.T) {
			scalar, ok := catalog.Scalar(tt.typeName)
			require.True(t, ok)

			got, err := scalar.Parse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	catalog := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("Filter%d", i%5)
			_ = catalog.RegisterType(name, reflect.TypeOf(Filter{}))
			catalog.Lookup(name)
			catalog.Constructible(name)
			catalog.List()
		}(i)
	}
	wg.Wait()

	assert.Len(t, catalog.List(), 5)
}
