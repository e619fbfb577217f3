package ioc

import (
	"fmt"

	"github.com/SaiNageswarS/go-ioc-boot/async"
)

type resolveOptions struct {
	key string
}

type ResolveOption func(*resolveOptions)

// Keyed selects the binding registered under key.
func Keyed(key string) ResolveOption {
	return func(o *resolveOptions) { o.key = key }
}

// Resolve is the typed form of Resolver.Resolve.
//
//	store, err := ioc.Resolve[Store](c)
//	replica, err := ioc.Resolve[Store](c, ioc.Keyed("replica"))
func Resolve[T any](r Resolver, opts ...ResolveOption) (T, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	service := TypeOf[T]()
	inst, err := r.Resolve(service, o.key)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, &ResolutionError{
			Reason: ReasonConstructionFailed,
			Key:    ServiceKey{Type: service, Key: o.key},
			Cause:  fmt.Errorf("resolved %T", inst),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics with the *ResolutionError.
func MustResolve[T any](r Resolver, opts ...ResolveOption) T {
	v, err := Resolve[T](r, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve stores the resolved instance in out and reports success. No
// error escapes; out is left untouched on failure.
func TryResolve[T any](r Resolver, out *T, opts ...ResolveOption) bool {
	v, err := Resolve[T](r, opts...)
	if err != nil {
		return false
	}
	*out = v
	return true
}

// ResolveAll resolves every binding registered for T in registration order.
func ResolveAll[T any](r Resolver) ([]T, error) {
	all, err := r.ResolveAll(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, inst := range all {
		typed, ok := inst.(T)
		if !ok {
			return nil, &ResolutionError{
				Reason: ReasonConstructionFailed,
				Key:    KeyOf[T](""),
				Cause:  fmt.Errorf("resolved %T", inst),
			}
		}
		out = append(out, typed)
	}
	return out, nil
}

// ResolveAsync resolves T on its own goroutine.
func ResolveAsync[T any](c *Container, opts ...ResolveOption) <-chan async.Result[T] {
	return async.Go(func() (T, error) {
		return Resolve[T](c, opts...)
	})
}
