package ioc

import (
	"errors"
	"sync/atomic"
)

// ─── service types used across the ioc tests ─────────────────────────────────

type Greeter interface{ Greet() string }

type englishGreeter struct {
	Name string
}

func (g *englishGreeter) Greet() string { return "hello " + g.Name }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

type Store interface{ Get(key string) string }

type memStore struct {
	label string
	data  map[string]string
}

func (s *memStore) Get(key string) string { return s.label + ":" + s.data[key] }

func newMemStore() *memStore { return &memStore{label: "mem", data: map[string]string{}} }

// service with both plain and keyed field dependencies
type reportService struct {
	Greeter Greeter `inject:""`
	Primary Store   `inject:"primary"`
	Replica Store   `inject:"replica,optional"`
	plain   int
}

type ready struct {
	Store   Store `inject:""`
	started bool
}

func (r *ready) AfterInject() error {
	r.started = true
	return nil
}

type failingHook struct{}

func (*failingHook) AfterInject() error { return errors.New("hook refused") }

type hidden struct {
	store Store `inject:""`
}

// ─── cycles ──────────────────────────────────────────────────────────────────

type Ping interface{ Ping() string }
type Pong interface{ Pong() string }

type pinger struct{ pong Pong }
type ponger struct{ ping Ping }

func (*pinger) Ping() string { return "ping" }
func (*ponger) Pong() string { return "pong" }

func newPinger(p Pong) Ping { return &pinger{pong: p} }
func newPonger(p Ping) Pong { return &ponger{ping: p} }

type chicken struct {
	Egg *egg `inject:""`
}

type egg struct {
	Chicken *chicken `inject:""`
}

// diamond: top -> (left, right) -> bottom
type bottom struct{ pad [32]byte }
type left struct {
	Bottom *bottom `inject:""`
}
type right struct {
	Bottom *bottom `inject:""`
}
type top struct {
	Left  *left  `inject:""`
	Right *right `inject:""`
}

// ─── counting helpers ────────────────────────────────────────────────────────

// heavy is large enough to get its own allocation, so weak references to it
// are cleared as soon as it becomes unreachable.
type heavy struct {
	ID  int64
	pad [64]byte
}

type counter struct{ n atomic.Int64 }

func (c *counter) heavyCtor() func() *heavy {
	return func() *heavy {
		return &heavy{ID: c.n.Add(1)}
	}
}

func (c *counter) greeterFactory() func(Resolver) (Greeter, error) {
	return func(Resolver) (Greeter, error) {
		c.n.Add(1)
		return &englishGreeter{Name: "factory"}, nil
	}
}
