package ioc

import (
	"errors"
	"fmt"
	"reflect"
)

// Kind is the recipe a Binding uses to produce an instance.
type Kind uint8

const (
	KindConcreteType Kind = iota + 1
	KindFactory
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindConcreteType:
		return "concrete"
	case KindFactory:
		return "factory"
	case KindInstance:
		return "instance"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type Lifetime uint8

const (
	Transient Lifetime = iota
	Singleton
)

func (l Lifetime) String() string {
	if l == Singleton {
		return "singleton"
	}
	return "transient"
}

// ParseLifetime accepts "singleton" or "transient" (empty means transient).
func ParseLifetime(s string) (Lifetime, error) {
	switch s {
	case "", "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	}
	return Transient, fmt.Errorf("unknown lifetime %q", s)
}

// FactoryFunc produces an instance. The Resolver it receives shares the
// in-progress resolution, so nested lookups take part in cycle detection.
type FactoryFunc func(r Resolver) (any, error)

// Binding is an immutable recipe for producing a service. Bindings are
// published by pointer; a new registration always creates a new Binding.
type Binding struct {
	Kind     Kind
	Lifetime Lifetime

	// KindConcreteType: the type to build. Ctor, when valid, is a function
	// func(deps...) T or func(deps...) (T, error); otherwise the type is
	// built by injecting its `inject`-tagged struct fields.
	Concrete reflect.Type
	Ctor     reflect.Value

	Factory  FactoryFunc
	Instance any
}

func (b *Binding) String() string {
	switch b.Kind {
	case KindConcreteType:
		return fmt.Sprintf("%s %s(%s)", b.Lifetime, b.Kind, TypeName(b.Concrete))
	case KindInstance:
		return fmt.Sprintf("%s(%T)", b.Kind, b.Instance)
	}
	return fmt.Sprintf("%s %s", b.Lifetime, b.Kind)
}

// validate checks that b can produce values assignable to service.
func (b *Binding) validate(service reflect.Type) error {
	switch b.Kind {
	case KindConcreteType:
		if b.Concrete == nil {
			return errors.New("concrete binding without a type")
		}
		if !b.Concrete.AssignableTo(service) {
			return fmt.Errorf("%s is not assignable to %s", TypeName(b.Concrete), TypeName(service))
		}
		if b.Ctor.IsValid() {
			out, err := constructorOutput(b.Ctor)
			if err != nil {
				return err
			}
			if !out.AssignableTo(service) {
				return fmt.Errorf("constructor result %s is not assignable to %s", TypeName(out), TypeName(service))
			}
		} else if !isSelfBindable(b.Concrete) {
			return fmt.Errorf("%s needs a constructor: only structs and struct pointers can be built by field injection", TypeName(b.Concrete))
		}
	case KindFactory:
		if b.Factory == nil {
			return errors.New("factory binding without a factory")
		}
	case KindInstance:
		if b.Instance == nil {
			return errors.New("instance binding with a nil instance")
		}
		if t := reflect.TypeOf(b.Instance); !t.AssignableTo(service) {
			return fmt.Errorf("instance of %s is not assignable to %s", TypeName(t), TypeName(service))
		}
	default:
		return fmt.Errorf("unknown binding kind %d", b.Kind)
	}
	return nil
}

var errorType = TypeOf[error]()

// constructorOutput validates a constructor's shape and returns the type it
// produces.
func constructorOutput(fn reflect.Value) (reflect.Type, error) {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("constructor must be a non-nil func, got %s", fn.Type())
	}
	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("constructor %s must not be variadic", ft)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("constructor %s must return T or (T, error)", ft)
	}
	return ft.Out(0), nil
}

// isSelfBindable reports whether t can be built without any registration:
// structs and pointers to structs.
func isSelfBindable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	}
	return false
}
