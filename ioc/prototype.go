package ioc

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// PrototypeFactory returns a factory producing a deep copy of template on
// every call.
func PrototypeFactory[T any](template T) func(Resolver) (T, error) {
	t := TypeOf[T]()
	return func(Resolver) (T, error) {
		var out T
		if t.Kind() == reflect.Pointer {
			out = reflect.New(t.Elem()).Interface().(T)
			if err := copier.CopyWithOption(out, template, copier.Option{DeepCopy: true}); err != nil {
				return out, fmt.Errorf("copy prototype: %w", err)
			}
			return out, nil
		}
		if err := copier.CopyWithOption(&out, template, copier.Option{DeepCopy: true}); err != nil {
			return out, fmt.Errorf("copy prototype: %w", err)
		}
		return out, nil
	}
}

// RegisterPrototype binds TService to fresh deep copies of template. The
// binding is always transient.
func RegisterPrototype[TService any](c *Container, template TService, opts ...RegisterOption) error {
	t := TypeOf[TService]()
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Struct {
		return fmt.Errorf("ioc: register %s: prototypes must be structs or struct pointers", TypeName(t))
	}
	if t.Kind() == reflect.Pointer && (t.Elem().Kind() != reflect.Struct || reflect.ValueOf(template).IsNil()) {
		return fmt.Errorf("ioc: register %s: prototype must be a non-nil struct pointer", TypeName(t))
	}
	return RegisterFactory(c, PrototypeFactory(template), append(opts, AsTransient())...)
}
