package ioc

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/SaiNageswarS/go-ioc-boot/logger"
	"github.com/SaiNageswarS/go-ioc-boot/registry"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Resolver produces service instances.
//
// The Resolver handed to factories and constructors is bound to the
// resolution in progress, so lookups made through it take part in cycle
// detection. It must not be used from other goroutines while that
// resolution runs; once it has finished, it behaves like the Container.
type Resolver interface {
	Resolve(service reflect.Type, key string) (any, error)
	ResolveAll(service reflect.Type) ([]any, error)
}

var resolverKey = KeyOf[Resolver]("")

// Container is the resolution engine. It is safe for concurrent use.
type Container struct {
	table    *RegistrationTable
	implicit *registry.Registry[ServiceKey, implicitBinding]
	defaults *Defaults
	types    *TypeCatalog
	cache    LifetimeCache
	metrics  *metrics
	log      *zap.Logger

	weak             bool
	defaultLifetime  Lifetime
	metricsReg       prometheus.Registerer
	metricsNamespace string
}

// implicitBinding memoises a binding derived from default metadata or from
// self-binding, tagged with the Defaults and TypeCatalog versions it was
// derived from.
type implicitBinding struct {
	binding *Binding
	version implicitVersion
}

type implicitVersion struct {
	defaults, catalog uint64
}

type Option func(*Container)

// WithDefaults replaces DefaultMetadata as the source of fallback bindings.
func WithDefaults(d *Defaults) Option {
	return func(c *Container) { c.defaults = d }
}

// WithTypeCatalog replaces Types as the catalog used for name-based defaults
// and registered constructors.
func WithTypeCatalog(t *TypeCatalog) Option {
	return func(c *Container) { c.types = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.log = l }
}

// WithWeakSingletons makes the container cache singletons without keeping
// them alive.
func WithWeakSingletons() Option {
	return func(c *Container) { c.weak = true }
}

// WithDefaultLifetime sets the lifetime used by Register* calls that do not
// pass AsSingleton or AsTransient.
func WithDefaultLifetime(l Lifetime) Option {
	return func(c *Container) { c.defaultLifetime = l }
}

// WithMetrics registers the container's counters with reg under namespace
// ("ioc" when empty).
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(c *Container) {
		c.metricsReg = reg
		c.metricsNamespace = namespace
	}
}

// New returns an empty container whose singleton cache owns its instances.
func New(opts ...Option) *Container {
	c := &Container{
		table:    NewRegistrationTable(),
		implicit: registry.New[ServiceKey, implicitBinding](),
		defaults: DefaultMetadata,
		types:    Types,
		log:      logger.Named("ioc"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.metricsReg != nil {
		c.metrics = newMetrics(c.metricsNamespace, c.metricsReg, c.log)
	}
	if c.weak {
		c.cache = NewWeakCache(c.onReclaim)
	} else {
		c.cache = NewStrongCache()
	}
	c.bindSelf()
	return c
}

// NewWeak returns a container whose singleton cache does not keep instances
// alive: a singleton nobody else references may be collected, and the next
// resolve builds a new one.
func NewWeak(opts ...Option) *Container {
	return New(append(opts, WithWeakSingletons())...)
}

func (c *Container) bindSelf() {
	c.table.Register(KeyOf[*Container](""), &Binding{Kind: KindInstance, Lifetime: Singleton, Instance: c})
}

func (c *Container) onReclaim(key ServiceKey) {
	c.metrics.reclaimed()
	c.log.Debug("weak singleton reclaimed", zap.Stringer("service", key))
}

// Ownership reports whether cached singletons are owned by the container.
func (c *Container) Ownership() Ownership {
	return c.cache.Ownership()
}

// ----- registration ----------------------------------------------------------

// Bind registers b for key, replacing any previous binding. The singleton
// cached for key, if any, is dropped: the next resolve builds under b.
func (c *Container) Bind(key ServiceKey, b Binding) error {
	if key.Type == nil {
		return errors.New("ioc: service type must not be nil")
	}
	if err := b.validate(key.Type); err != nil {
		return fmt.Errorf("ioc: register %s: %w", key, err)
	}
	if b.Kind == KindInstance {
		b.Lifetime = Singleton
	}

	nb := &b
	prev := c.table.Register(key, nb)
	c.cache.Invalidate(key)
	c.implicit.Delete(key)

	if prev != nil {
		c.log.Debug("binding replaced",
			zap.Stringer("service", key), zap.Stringer("old", prev), zap.Stringer("new", nb))
	} else {
		c.log.Debug("binding registered", zap.Stringer("service", key), zap.Stringer("binding", nb))
	}
	return nil
}

// Unregister removes the binding for (service, key) and its cached singleton.
func (c *Container) Unregister(service reflect.Type, key string) bool {
	sk := ServiceKey{Type: service, Key: key}
	removed := c.table.Remove(sk)
	c.cache.Invalidate(sk)
	c.implicit.Delete(sk)
	return removed
}

// IsRegistered reports whether (service, key) has an explicit binding.
// Default metadata and self-binding are not considered.
func (c *Container) IsRegistered(service reflect.Type, key string) bool {
	_, ok := c.table.TryGet(ServiceKey{Type: service, Key: key})
	return ok
}

// Bindings lists the explicitly registered slots in registration order.
func (c *Container) Bindings() []ServiceKey {
	entries := c.table.Entries()
	out := make([]ServiceKey, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

// Reset drops every registration and cached singleton.
func (c *Container) Reset() {
	c.table.Clear()
	c.implicit.Clear()
	c.cache.Clear()
	c.bindSelf()
}

// ----- resolution ------------------------------------------------------------

// Resolve returns an instance of service registered under key. Failures are
// reported as *ResolutionError.
func (c *Container) Resolve(service reflect.Type, key string) (any, error) {
	inst, err := c.newResolution().Resolve(service, key)
	c.metrics.resolved(err)
	if err != nil {
		c.log.Debug("resolution failed", zap.String("service", TypeName(service)),
			zap.String("key", key), zap.Error(err))
	}
	return inst, err
}

// ResolveAll resolves every binding registered for service, across all keys,
// in registration order. Each binding is resolved independently.
func (c *Container) ResolveAll(service reflect.Type) ([]any, error) {
	entries := c.table.GetAll(service)
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		inst, err := c.Resolve(e.Key.Type, e.Key.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// TryResolve is Resolve without the error.
func (c *Container) TryResolve(service reflect.Type, key string) (any, bool) {
	inst, err := c.Resolve(service, key)
	return inst, err == nil
}

func (c *Container) newResolution() *resolution {
	return &resolution{c: c, guard: NewCycleGuard()}
}

// lookup finds the binding for key: the table first, then (for key-less
// lookups only) default metadata, then self-binding of concrete types.
func (c *Container) lookup(key ServiceKey, guard *CycleGuard) (*Binding, error) {
	if b, ok := c.table.TryGet(key); ok {
		return b, nil
	}
	if key.Key != "" || key.Type == nil {
		return nil, unregistered(key, guard.Path())
	}

	version := implicitVersion{defaults: c.defaults.Version(), catalog: c.types.Version()}
	if ib, ok := c.implicit.Get(key); ok && ib.version == version {
		return ib.binding, nil
	}

	b, declared, err := c.defaults.bindingFor(key, c.types)
	if err != nil {
		return nil, err
	}
	if !declared {
		if !isSelfBindable(key.Type) {
			if _, ok := c.types.Constructor(key.Type); !ok {
				return nil, unregistered(key, guard.Path())
			}
		}
		b = &Binding{Kind: KindConcreteType, Lifetime: Transient, Concrete: key.Type}
		if ctor, ok := c.types.Constructor(key.Type); ok {
			b.Ctor = ctor
		}
	}

	actual := b
	c.implicit.Update(key, func(old implicitBinding, present bool) (implicitBinding, bool) {
		if present && old.version == version {
			actual = old.binding
			return old, true
		}
		return implicitBinding{binding: b, version: version}, true
	})
	return actual, nil
}

// isCurrent reports whether b is still the binding in effect for key.
func (c *Container) isCurrent(key ServiceKey, b *Binding) bool {
	if cur, ok := c.table.TryGet(key); ok {
		return cur == b
	}
	ib, ok := c.implicit.Get(key)
	return ok && ib.binding == b
}
