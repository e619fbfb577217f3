// Package messenger is a typed publish/subscribe bus. Messages are routed by
// their dynamic type; subscribers to an interface type receive every message
// implementing it.
package messenger

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/SaiNageswarS/go-ioc-boot/ioc"
	"github.com/SaiNageswarS/go-ioc-boot/logger"
	"github.com/SaiNageswarS/go-ioc-boot/registry"
	"go.uber.org/zap"
)

// Token identifies a subscription.
type Token uint64

// Bus is what components depend on. *Messenger is its default
// implementation: resolving Bus from a container with nothing registered
// yields a process-wide singleton Messenger.
type Bus interface {
	SubscribeType(msgType reflect.Type, handler func(msg any)) Token
	Publish(msg any) int
	Unsubscribe(token Token) bool
}

func init() {
	if _, err := ioc.Types.AddConstructor(New); err != nil {
		panic(err)
	}
	if err := ioc.Declare[Bus, *Messenger](ioc.DefaultMetadata, true); err != nil {
		panic(err)
	}
}

// errGone is returned by a handler whose subscriber no longer exists.
var errGone = errors.New("subscriber gone")

type subscription struct {
	token   Token
	handler func(any) error
	onClose func()
}

type Messenger struct {
	subs   *registry.Registry[reflect.Type, []*subscription]
	tokens *registry.Registry[Token, reflect.Type]
	next   atomic.Uint64
	log    *zap.Logger
}

func New() *Messenger {
	return &Messenger{
		subs:   registry.New[reflect.Type, []*subscription](),
		tokens: registry.New[Token, reflect.Type](),
		log:    logger.Named("messenger"),
	}
}

// SubscribeType calls handler for every published message whose type is
// msgType or, when msgType is an interface, implements it.
func (m *Messenger) SubscribeType(msgType reflect.Type, handler func(msg any)) Token {
	if msgType == nil || handler == nil {
		logger.Fatal("SubscribeType expects a message type and a handler")
		return 0
	}
	return m.add(msgType, func(msg any) error {
		handler(msg)
		return nil
	}, nil)
}

func (m *Messenger) add(msgType reflect.Type, handler func(any) error, onClose func()) Token {
	sub := &subscription{token: Token(m.next.Add(1)), handler: handler, onClose: onClose}
	m.tokens.Set(sub.token, msgType)
	m.subs.Update(msgType, func(old []*subscription, _ bool) ([]*subscription, bool) {
		return append(append([]*subscription(nil), old...), sub), true
	})
	return sub.token
}

// Publish delivers msg synchronously to every matching subscriber and
// returns how many received it. Subscribers of the same type are called in
// subscription order. A panicking handler is logged and skipped.
func (m *Messenger) Publish(msg any) int {
	if msg == nil {
		return 0
	}
	msgType := reflect.TypeOf(msg)

	var targets []*subscription
	m.subs.Range(func(t reflect.Type, subs []*subscription) bool {
		if t == msgType || (t.Kind() == reflect.Interface && msgType.Implements(t)) {
			targets = append(targets, subs...)
		}
		return true
	})

	delivered := 0
	for _, sub := range targets {
		err := m.deliver(sub, msg)
		if errors.Is(err, errGone) {
			m.Unsubscribe(sub.token)
			continue
		}
		if err != nil {
			m.log.Error("subscriber failed", zap.Uint64("token", uint64(sub.token)),
				zap.String("message", ioc.TypeName(msgType)), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

func (m *Messenger) deliver(sub *subscription, msg any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return sub.handler(msg)
}

// Unsubscribe removes the subscription. It reports false for unknown or
// already removed tokens.
func (m *Messenger) Unsubscribe(token Token) bool {
	msgType, ok := m.tokens.Get(token)
	if !ok || !m.tokens.Delete(token) {
		return false
	}

	var removed *subscription
	m.subs.Update(msgType, func(old []*subscription, present bool) ([]*subscription, bool) {
		kept := make([]*subscription, 0, len(old))
		for _, s := range old {
			if s.token == token {
				removed = s
				continue
			}
			kept = append(kept, s)
		}
		return kept, len(kept) > 0
	})
	if removed != nil && removed.onClose != nil {
		removed.onClose()
	}
	return removed != nil
}

// Len returns the number of live subscriptions.
func (m *Messenger) Len() int {
	return m.tokens.Len()
}

// Reset drops every subscription, closing subscriber channels.
func (m *Messenger) Reset() {
	for _, token := range m.tokens.Keys() {
		m.Unsubscribe(token)
	}
}
