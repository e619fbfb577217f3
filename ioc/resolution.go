package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

const injectTag = "inject"

// PostInjector is implemented by field-injected types that need to finish
// their own setup once every tagged field is populated.
type PostInjector interface {
	AfterInject() error
}

// resolution is the state of one top-level Resolve call. Its guard is what
// makes cycle detection call-scoped rather than process-wide.
type resolution struct {
	c     *Container
	guard *CycleGuard
	done  atomic.Bool
}

func (r *resolution) Resolve(service reflect.Type, key string) (any, error) {
	if r.done.Load() {
		return r.c.Resolve(service, key)
	}
	return r.resolve(ServiceKey{Type: service, Key: key})
}

func (r *resolution) ResolveAll(service reflect.Type) ([]any, error) {
	if r.done.Load() {
		return r.c.ResolveAll(service)
	}
	entries := r.c.table.GetAll(service)
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		inst, err := r.resolve(e.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// resolve is the core algorithm: find the binding, short-circuit on
// instances and live singletons, otherwise build the instance with key.Type
// on the cycle guard.
func (r *resolution) resolve(key ServiceKey) (any, error) {
	c := r.c
	if r.guard.Depth() == 0 {
		defer r.done.Store(true)
	}

	if key == resolverKey && !c.IsRegistered(key.Type, key.Key) {
		return r, nil
	}

	b, err := c.lookup(key, r.guard)
	if err != nil {
		return nil, err
	}
	if b.Kind == KindInstance {
		return b.Instance, nil
	}
	if b.Lifetime == Singleton {
		if e, ok := c.cache.TryGetAlive(key); ok && e.Binding == b {
			return e.Instance, nil
		}
	}

	if !r.guard.Enter(key.Type) {
		return nil, circular(key, r.guard.Path())
	}
	defer r.guard.Exit(key.Type)

	inst, err := r.realize(key, b)
	if err != nil {
		return nil, err
	}
	c.metrics.constructed(b.Kind)

	if b.Lifetime == Singleton && c.isCurrent(key, b) {
		inst = c.cache.Store(key, CacheEntry{Instance: inst, Binding: b}).Instance
	}
	return inst, nil
}

func (r *resolution) realize(key ServiceKey, b *Binding) (any, error) {
	switch b.Kind {
	case KindFactory:
		return r.invokeFactory(key, b.Factory)
	case KindConcreteType:
		if b.Ctor.IsValid() {
			return r.invokeConstructor(key, b.Ctor)
		}
		return r.injectFields(key, b.Concrete)
	}
	return nil, constructionFailed(key, r.guard.Path(), fmt.Errorf("cannot realize %s binding", b.Kind))
}

func (r *resolution) invokeFactory(key ServiceKey, fn FactoryFunc) (inst any, err error) {
	defer r.recoverInto(key, &err)

	inst, err = fn(r)
	if err != nil {
		return nil, constructionFailed(key, r.guard.Path(), err)
	}
	if inst == nil || isNil(reflect.ValueOf(inst)) {
		return nil, constructionFailed(key, r.guard.Path(), errors.New("factory returned nil"))
	}
	if t := reflect.TypeOf(inst); !t.AssignableTo(key.Type) {
		return nil, constructionFailed(key, r.guard.Path(),
			fmt.Errorf("factory returned %s, not assignable to %s", TypeName(t), TypeName(key.Type)))
	}
	return inst, nil
}

func (r *resolution) invokeConstructor(key ServiceKey, ctor reflect.Value) (inst any, err error) {
	ft := ctor.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		dep, depErr := r.resolve(ServiceKey{Type: ft.In(i)})
		if depErr != nil {
			return nil, depErr
		}
		if args[i], depErr = valueFor(dep, ft.In(i)); depErr != nil {
			return nil, constructionFailed(key, r.guard.Path(), depErr)
		}
	}

	defer r.recoverInto(key, &err)

	out := ctor.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, constructionFailed(key, r.guard.Path(), out[1].Interface().(error))
	}
	if isNil(out[0]) {
		return nil, constructionFailed(key, r.guard.Path(), fmt.Errorf("constructor %s returned nil", ft))
	}
	return out[0].Interface(), nil
}

// injectFields builds a struct (or struct pointer) by resolving its exported
// fields tagged `inject:""`. The tag value is the key to resolve the field
// with; ",optional" leaves the field zero when nothing is registered for it.
func (r *resolution) injectFields(key ServiceKey, t reflect.Type) (any, error) {
	st := t
	if t.Kind() == reflect.Pointer {
		st = t.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, constructionFailed(key, r.guard.Path(),
			fmt.Errorf("%s cannot be built without a constructor", TypeName(t)))
	}

	ptr := reflect.New(st)
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		tag, tagged := f.Tag.Lookup(injectTag)
		if !tagged {
			continue
		}
		if !f.IsExported() {
			return nil, constructionFailed(key, r.guard.Path(),
				fmt.Errorf("field %s.%s is tagged %q but not exported", st.Name(), f.Name, injectTag))
		}

		name, opts, _ := strings.Cut(tag, ",")
		fieldKey := ServiceKey{Type: f.Type, Key: name}
		dep, err := r.resolve(fieldKey)
		if err != nil {
			var re *ResolutionError
			if opts == "optional" && errors.As(err, &re) && re.Reason == ReasonUnregistered && re.Key == fieldKey {
				continue
			}
			return nil, err
		}
		v, err := valueFor(dep, f.Type)
		if err != nil {
			return nil, constructionFailed(key, r.guard.Path(), err)
		}
		ptr.Elem().Field(i).Set(v)
	}

	if pi, ok := ptr.Interface().(PostInjector); ok {
		if err := r.afterInject(key, pi); err != nil {
			return nil, err
		}
	}
	if t.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

func (r *resolution) afterInject(key ServiceKey, pi PostInjector) (err error) {
	defer r.recoverInto(key, &err)
	if err := pi.AfterInject(); err != nil {
		return constructionFailed(key, r.guard.Path(), err)
	}
	return nil
}

// recoverInto turns a panic raised while building key into a construction
// failure. It must be deferred directly.
func (r *resolution) recoverInto(key ServiceKey, errp *error) {
	p := recover()
	if p == nil {
		return
	}
	cause, ok := p.(error)
	if ok {
		cause = fmt.Errorf("panic: %w", cause)
	} else {
		cause = fmt.Errorf("panic: %v", p)
	}
	*errp = constructionFailed(key, r.guard.Path(), cause)
}

func valueFor(dep any, t reflect.Type) (reflect.Value, error) {
	if dep == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(dep)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", TypeName(v.Type()), TypeName(t))
	}
	return v, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
