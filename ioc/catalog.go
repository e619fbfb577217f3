package ioc

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/SaiNageswarS/go-ioc-boot/registry"
)

// TypeCatalog is the set of types that can be referenced by name. Go has no
// way to look a type up by name at run time, so a package that wants to be
// late-bound adds its types here, usually from init(). Until it does, name
// references to its types are unresolvable.
type TypeCatalog struct {
	types *registry.Registry[string, reflect.Type]
	ctors   *registry.Registry[reflect.Type, reflect.Value]
	version atomic.Uint64
}

// Types is the process-wide catalog used by containers that are not given
// their own.
var Types = NewTypeCatalog()

func NewTypeCatalog() *TypeCatalog {
	return &TypeCatalog{
		types: registry.New[string, reflect.Type](),
		ctors: registry.New[reflect.Type, reflect.Value](),
	}
}

// Add makes t loadable under name.
func (c *TypeCatalog) Add(name string, t reflect.Type) {
	c.types.Set(name, t)
	c.version.Add(1)
}

// AddConstructor registers ctor as the way to build its result type and makes
// that type loadable under its TypeName. ctor has the shape func(deps...) T
// or func(deps...) (T, error).
func (c *TypeCatalog) AddConstructor(ctor any) (string, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() {
		return "", fmt.Errorf("constructor must be a func, got nil")
	}
	out, err := constructorOutput(fn)
	if err != nil {
		return "", err
	}
	name := TypeName(out)
	c.ctors.Set(out, fn)
	c.types.Set(name, out)
	c.version.Add(1)
	return name, nil
}

// Version changes every time a type or constructor is added.
func (c *TypeCatalog) Version() uint64 {
	return c.version.Load()
}

func (c *TypeCatalog) Lookup(name string) (reflect.Type, bool) {
	return c.types.Get(name)
}

// Constructor returns the constructor registered for t, if any.
func (c *TypeCatalog) Constructor(t reflect.Type) (reflect.Value, bool) {
	return c.ctors.Get(t)
}

// Names lists the loadable type names in the order they were added.
func (c *TypeCatalog) Names() []string {
	return c.types.Keys()
}

// LoadType adds T to catalog under TypeName and returns that name.
func LoadType[T any](catalog *TypeCatalog) string {
	t := TypeOf[T]()
	name := TypeName(t)
	catalog.Add(name, t)
	return name
}
