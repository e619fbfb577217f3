package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/SaiNageswarS/go-ioc-boot/registry"
)

// DefaultBinding is what a service type declares about itself: the concrete
// type to fall back to when nothing is registered. Exactly one of Concrete and
// TypeName is set.
type DefaultBinding struct {
	Concrete reflect.Type
	TypeName string
	Lifetime Lifetime
}

// Defaults is a side-table of service type -> DefaultBinding. It is read-only
// convention data from the container's point of view: the container consults
// it only when its RegistrationTable has no entry, and never writes to it.
type Defaults struct {
	entries *registry.Registry[reflect.Type, DefaultBinding]
	version atomic.Uint64
}

// DefaultMetadata is the process-wide table. Packages declare defaults for
// their service interfaces here from init().
var DefaultMetadata = NewDefaults()

func NewDefaults() *Defaults {
	return &Defaults{entries: registry.New[reflect.Type, DefaultBinding]()}
}

// Declare records TImpl as the fallback implementation of TService.
func Declare[TService, TImpl any](d *Defaults, singleton bool) error {
	service, impl := TypeOf[TService](), TypeOf[TImpl]()
	if !impl.AssignableTo(service) {
		return fmt.Errorf("ioc: default %s is not assignable to %s", TypeName(impl), TypeName(service))
	}
	d.set(service, DefaultBinding{Concrete: impl, Lifetime: lifetimeOf(singleton)})
	return nil
}

// DeclareByName records the type loaded under typeName as the fallback
// implementation of TService. The name is resolved against the container's
// TypeCatalog each time the fallback is needed, so the implementing package
// does not have to be linked in or loaded yet.
func DeclareByName[TService any](d *Defaults, typeName string, singleton bool) error {
	if typeName == "" {
		return errors.New("ioc: default type name must not be empty")
	}
	d.set(TypeOf[TService](), DefaultBinding{TypeName: typeName, Lifetime: lifetimeOf(singleton)})
	return nil
}

func (d *Defaults) set(service reflect.Type, db DefaultBinding) {
	d.entries.Set(service, db)
	d.version.Add(1)
}

// Lookup returns the default declared for service.
func (d *Defaults) Lookup(service reflect.Type) (DefaultBinding, bool) {
	return d.entries.Get(service)
}

// Version changes every time a default is declared.
func (d *Defaults) Version() uint64 {
	return d.version.Load()
}

var errTypeNotLoaded = errors.New("type not found in catalog")

// bindingFor turns the default declared for key.Type into a Binding. ok is
// false when nothing is declared. A name that cannot be resolved against
// catalog yields a ReasonTypeNameUnresolvable error.
func (d *Defaults) bindingFor(key ServiceKey, catalog *TypeCatalog) (b *Binding, ok bool, err error) {
	db, ok := d.Lookup(key.Type)
	if !ok {
		return nil, false, nil
	}

	concrete := db.Concrete
	if concrete == nil {
		t, found := catalog.Lookup(db.TypeName)
		if !found {
			return nil, true, typeNameUnresolvable(key, db.TypeName, errTypeNotLoaded)
		}
		if !t.AssignableTo(key.Type) {
			return nil, true, typeNameUnresolvable(key, db.TypeName,
				fmt.Errorf("%s is not assignable to %s", TypeName(t), TypeName(key.Type)))
		}
		concrete = t
	}

	b = &Binding{Kind: KindConcreteType, Lifetime: db.Lifetime, Concrete: concrete}
	if ctor, found := catalog.Constructor(concrete); found {
		b.Ctor = ctor
	} else if !isSelfBindable(concrete) {
		return nil, true, constructionFailed(key, nil,
			fmt.Errorf("default %s has no constructor", TypeName(concrete)))
	}
	return b, true, nil
}

func lifetimeOf(singleton bool) Lifetime {
	if singleton {
		return Singleton
	}
	return Transient
}
