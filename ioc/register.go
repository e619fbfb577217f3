package ioc

import (
	"fmt"
	"reflect"
)

type registration struct {
	key         string
	lifetime    Lifetime
	lifetimeSet bool
}

type RegisterOption func(*registration)

// WithKey registers the binding under key instead of the key-less slot.
func WithKey(key string) RegisterOption {
	return func(r *registration) { r.key = key }
}

func AsSingleton() RegisterOption {
	return func(r *registration) { r.lifetime, r.lifetimeSet = Singleton, true }
}

func AsTransient() RegisterOption {
	return func(r *registration) { r.lifetime, r.lifetimeSet = Transient, true }
}

func (c *Container) registration(opts []RegisterOption) registration {
	reg := registration{lifetime: c.defaultLifetime}
	for _, opt := range opts {
		opt(&reg)
	}
	return reg
}

// Register binds TService to the concrete type TImpl. TImpl is built with the
// constructor registered for it in the container's TypeCatalog, or else by
// field injection.
//
//	ioc.Register[Store, *SQLStore](c, ioc.AsSingleton())
func Register[TService, TImpl any](c *Container, opts ...RegisterOption) error {
	reg := c.registration(opts)
	impl := TypeOf[TImpl]()
	b := Binding{Kind: KindConcreteType, Lifetime: reg.lifetime, Concrete: impl}
	if ctor, ok := c.types.Constructor(impl); ok {
		b.Ctor = ctor
	}
	return c.Bind(ServiceKey{Type: TypeOf[TService](), Key: reg.key}, b)
}

// RegisterConstructor binds TService to a constructor of the form
// func(deps...) T or func(deps...) (T, error). Every parameter is resolved
// key-less from the container.
func RegisterConstructor[TService any](c *Container, ctor any, opts ...RegisterOption) error {
	return c.bindConstructor(TypeOf[TService](), ctor, c.registration(opts))
}

func (c *Container) bindConstructor(service reflect.Type, ctor any, reg registration) error {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() {
		return fmt.Errorf("ioc: register %s: constructor must be a func, got nil", TypeName(service))
	}
	out, err := constructorOutput(fn)
	if err != nil {
		return fmt.Errorf("ioc: register %s: %w", TypeName(service), err)
	}
	return c.Bind(ServiceKey{Type: service, Key: reg.key},
		Binding{Kind: KindConcreteType, Lifetime: reg.lifetime, Concrete: out, Ctor: fn})
}

// RegisterFactory binds TService to fn.
func RegisterFactory[TService any](c *Container, fn func(Resolver) (TService, error), opts ...RegisterOption) error {
	reg := c.registration(opts)
	if fn == nil {
		return fmt.Errorf("ioc: register %s: nil factory", TypeName(TypeOf[TService]()))
	}
	factory := func(r Resolver) (any, error) {
		v, err := fn(r)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return c.Bind(ServiceKey{Type: TypeOf[TService](), Key: reg.key},
		Binding{Kind: KindFactory, Lifetime: reg.lifetime, Factory: factory})
}

// RegisterInstance binds TService to a pre-built value. Lifetime options are
// ignored: an instance is a singleton by construction.
func RegisterInstance[TService any](c *Container, instance TService, opts ...RegisterOption) error {
	reg := c.registration(opts)
	return c.Bind(ServiceKey{Type: TypeOf[TService](), Key: reg.key},
		Binding{Kind: KindInstance, Lifetime: Singleton, Instance: instance})
}
