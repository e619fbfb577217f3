package ioc

import (
	"fmt"
	"reflect"
)

// ServiceKey identifies a registration slot: a service type plus an optional
// key. The empty key is the key-less slot.
type ServiceKey struct {
	Type reflect.Type
	Key  string
}

func KeyOf[T any](key string) ServiceKey {
	return ServiceKey{Type: TypeOf[T](), Key: key}
}

func (k ServiceKey) String() string {
	if k.Key == "" {
		return TypeName(k.Type)
	}
	return fmt.Sprintf("%s[%s]", TypeName(k.Type), k.Key)
}

// TypeOf returns the reflect.Type of T, interfaces included.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeName returns the package-qualified name used to identify t in a
// TypeCatalog, e.g. "github.com/acme/store.SQLStore" or
// "*github.com/acme/store.SQLStore".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
