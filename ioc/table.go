package ioc

import (
	"reflect"

	"github.com/SaiNageswarS/go-ioc-boot/registry"
)

// Entry pairs a registration slot with its binding.
type Entry struct {
	Key     ServiceKey
	Binding *Binding
}

// RegistrationTable maps ServiceKeys to Bindings. Bindings are immutable and
// swapped under the registry lock, so readers observe either the old or the
// new binding, never a mix.
type RegistrationTable struct {
	bindings *registry.Registry[ServiceKey, *Binding]
}

func NewRegistrationTable() *RegistrationTable {
	return &RegistrationTable{bindings: registry.New[ServiceKey, *Binding]()}
}

// Register inserts or replaces the binding for key and returns the binding it
// replaced, if any.
func (t *RegistrationTable) Register(key ServiceKey, b *Binding) (previous *Binding) {
	t.bindings.Update(key, func(old *Binding, present bool) (*Binding, bool) {
		if present {
			previous = old
		}
		return b, true
	})
	return previous
}

func (t *RegistrationTable) TryGet(key ServiceKey) (*Binding, bool) {
	return t.bindings.Get(key)
}

// GetAll returns every binding registered for service, across all keys, in
// registration order.
func (t *RegistrationTable) GetAll(service reflect.Type) []Entry {
	var out []Entry
	t.bindings.Range(func(k ServiceKey, b *Binding) bool {
		if k.Type == service {
			out = append(out, Entry{Key: k, Binding: b})
		}
		return true
	})
	return out
}

func (t *RegistrationTable) Remove(key ServiceKey) bool {
	return t.bindings.Delete(key)
}

// Entries returns a snapshot of the whole table in registration order.
func (t *RegistrationTable) Entries() []Entry {
	out := make([]Entry, 0, t.bindings.Len())
	t.bindings.Range(func(k ServiceKey, b *Binding) bool {
		out = append(out, Entry{Key: k, Binding: b})
		return true
	})
	return out
}

func (t *RegistrationTable) Len() int {
	return t.bindings.Len()
}

func (t *RegistrationTable) Clear() {
	t.bindings.Clear()
}
