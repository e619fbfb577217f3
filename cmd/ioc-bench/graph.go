package main

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/SaiNageswarS/go-ioc-boot/ioc"
	"github.com/SaiNageswarS/go-ioc-boot/messenger"
)

// The demo graph is a small order service:
//
//	*orderService -> OrderRepository (singleton) -> Clock (instance)
//	              -> messenger.Bus (default metadata)
//	              -> Notifier["audit"] (transient factory)
//	              -> Notifier["email"] (optional)
type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type OrderRepository interface {
	Save(id int64) error
	Count() int64
}

type memoryOrders struct {
	clock Clock
	saved atomic.Int64
}

func newMemoryOrders(clock Clock) *memoryOrders {
	return &memoryOrders{clock: clock}
}

func (r *memoryOrders) Save(id int64) error {
	if id < 0 {
		return errors.New("negative order id")
	}
	r.saved.Add(1)
	return nil
}

func (r *memoryOrders) Count() int64 { return r.saved.Load() }

type Notifier interface{ Notify(msg string) }

type auditNotifier struct{ sent atomic.Int64 }

func (n *auditNotifier) Notify(string) { n.sent.Add(1) }

type orderPlaced struct{ ID int64 }

type orderService struct {
	Orders OrderRepository `inject:""`
	Bus    messenger.Bus   `inject:""`
	Audit  Notifier        `inject:"audit"`
	Email  Notifier        `inject:"email,optional"`
}

func (s *orderService) Place(id int64) error {
	if err := s.Orders.Save(id); err != nil {
		return err
	}
	messenger.Send(s.Bus, orderPlaced{ID: id})
	s.Audit.Notify("order placed")
	return nil
}

func registerDemoGraph(c *ioc.Container) error {
	if err := ioc.RegisterInstance[Clock](c, systemClock{}); err != nil {
		return err
	}
	if err := ioc.RegisterConstructor[OrderRepository](c, newMemoryOrders, ioc.AsSingleton()); err != nil {
		return err
	}
	audit := &auditNotifier{}
	return ioc.RegisterFactory(c, func(ioc.Resolver) (Notifier, error) {
		return audit, nil
	}, ioc.WithKey("audit"))
}

// cyclic pair registered by `check --cycle`
type Inventory interface{ Reserve() }
type Pricing interface{ Quote() }

type inventory struct{ pricing Pricing }
type pricing struct{ inventory Inventory }

func (*inventory) Reserve() {}
func (*pricing) Quote()     {}

func registerCycle(c *ioc.Container) error {
	if err := ioc.RegisterConstructor[Inventory](c, func(p Pricing) *inventory { return &inventory{pricing: p} }); err != nil {
		return err
	}
	return ioc.RegisterConstructor[Pricing](c, func(i Inventory) *pricing { return &pricing{inventory: i} })
}
