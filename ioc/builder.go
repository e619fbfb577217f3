package ioc

import (
	"reflect"

	"github.com/SaiNageswarS/go-ioc-boot/logger"
	"go.uber.org/zap"
)

// Builder collects registrations fluently and produces a Container.
// Misuse that can only be a programming error (a non-function passed as a
// constructor, a value that does not implement the interface it is provided
// as) is reported through logger.Fatal, like the rest of the bootstrap code.
type Builder struct {
	opts  []Option
	steps []func(*Container) error
}

func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: opts}
}

func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Provide registers value as a singleton instance of its own dynamic type.
func (b *Builder) Provide(value any) *Builder {
	if value == nil {
		logger.Fatal("Provide expects a non-nil value")
		return b
	}
	t := reflect.TypeOf(value)
	return b.step(func(c *Container) error {
		return c.Bind(ServiceKey{Type: t}, Binding{Kind: KindInstance, Instance: value})
	})
}

// ProvideAs registers value as the instance of the interface ifacePtr points
// to, e.g. ProvideAs(store, (*Store)(nil)).
func (b *Builder) ProvideAs(value any, ifacePtr any) *Builder {
	return b.ProvideKeyed("", value, ifacePtr)
}

// ProvideKeyed is ProvideAs for a keyed slot.
func (b *Builder) ProvideKeyed(key string, value any, ifacePtr any) *Builder {
	ifaceType, ok := interfaceOf(ifacePtr)
	if !ok {
		return b
	}
	val := reflect.ValueOf(value)
	if !val.IsValid() || !val.Type().Implements(ifaceType) {
		logger.Fatal("Provided value does not implement the given interface",
			zap.String("valueType", TypeName(reflect.TypeOf(value))),
			zap.String("interfaceType", TypeName(ifaceType)))
		return b
	}
	return b.step(func(c *Container) error {
		return c.Bind(ServiceKey{Type: ifaceType, Key: key}, Binding{Kind: KindInstance, Instance: value})
	})
}

// ProvideFunc registers fn as the constructor of its result type. Providers
// are singletons unless AsTransient is passed.
func (b *Builder) ProvideFunc(fn any, opts ...RegisterOption) *Builder {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.Type().NumOut() == 0 {
		logger.Fatal("ProvideFunc expects a function returning a value", zap.Any("received", fn))
		return b
	}
	return b.provideFunc(v.Type().Out(0), fn, opts)
}

// ProvideFuncAs registers fn as the constructor of the interface ifacePtr
// points to.
func (b *Builder) ProvideFuncAs(fn any, ifacePtr any, opts ...RegisterOption) *Builder {
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		logger.Fatal("ProvideFuncAs expects a function", zap.Any("received", fn))
		return b
	}
	ifaceType, ok := interfaceOf(ifacePtr)
	if !ok {
		return b
	}
	return b.provideFunc(ifaceType, fn, opts)
}

func (b *Builder) provideFunc(service reflect.Type, fn any, opts []RegisterOption) *Builder {
	return b.step(func(c *Container) error {
		reg := registration{lifetime: Singleton}
		for _, opt := range opts {
			opt(&reg)
		}
		return c.bindConstructor(service, fn, reg)
	})
}

// ProvideFactory registers fn as the factory of the interface ifacePtr
// points to. Factories are transient unless AsSingleton is passed.
func (b *Builder) ProvideFactory(ifacePtr any, fn FactoryFunc, opts ...RegisterOption) *Builder {
	if fn == nil {
		logger.Fatal("ProvideFactory expects a non-nil factory")
		return b
	}
	ifaceType, ok := interfaceOf(ifacePtr)
	if !ok {
		return b
	}
	return b.step(func(c *Container) error {
		reg := c.registration(opts)
		return c.Bind(ServiceKey{Type: ifaceType, Key: reg.key},
			Binding{Kind: KindFactory, Lifetime: reg.lifetime, Factory: fn})
	})
}

// Configure runs fn against the container being built, for registrations
// the fluent methods do not cover (factories, prototypes, defaults).
func (b *Builder) Configure(fn func(*Container) error) *Builder {
	return b.step(fn)
}

// Build creates the container and applies every registration in order.
func (b *Builder) Build() (*Container, error) {
	c := New(b.opts...)
	for _, step := range b.steps {
		if err := step(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (b *Builder) step(fn func(*Container) error) *Builder {
	b.steps = append(b.steps, fn)
	return b
}

func interfaceOf(ifacePtr any) (reflect.Type, bool) {
	t := reflect.TypeOf(ifacePtr)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Interface {
		logger.Fatal("expected a nil pointer to an interface, e.g. (*Service)(nil)",
			zap.String("received", TypeName(t)))
		return nil, false
	}
	return t.Elem(), true
}
