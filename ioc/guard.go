package ioc

import "reflect"

// CycleGuard tracks the service types under construction within one
// top-level resolution. It is never shared between resolutions or
// goroutines: each Container.Resolve call creates its own.
type CycleGuard struct {
	stack  []reflect.Type
	active map[reflect.Type]struct{}
}

func NewCycleGuard() *CycleGuard {
	return &CycleGuard{active: make(map[reflect.Type]struct{})}
}

// Enter pushes t. It returns false, leaving the guard untouched, when t is
// already under construction.
func (g *CycleGuard) Enter(t reflect.Type) bool {
	if _, busy := g.active[t]; busy {
		return false
	}
	g.active[t] = struct{}{}
	g.stack = append(g.stack, t)
	return true
}

// Exit removes t. Exiting a type that is not on the stack is a no-op.
func (g *CycleGuard) Exit(t reflect.Type) {
	for i := len(g.stack) - 1; i >= 0; i-- {
		if g.stack[i] != t {
			continue
		}
		g.stack = append(g.stack[:i], g.stack[i+1:]...)
		delete(g.active, t)
		return
	}
}

// Path returns a copy of the stack, outermost first.
func (g *CycleGuard) Path() []reflect.Type {
	out := make([]reflect.Type, len(g.stack))
	copy(out, g.stack)
	return out
}

func (g *CycleGuard) Depth() int {
	return len(g.stack)
}
