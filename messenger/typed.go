package messenger

import (
	"fmt"
	"weak"

	"github.com/SaiNageswarS/go-ioc-boot/ioc"
)

// Subscribe calls fn for every message of type T.
//
//	messenger.Subscribe(bus, func(e OrderPlaced) { ... })
func Subscribe[T any](b Bus, fn func(T)) Token {
	return b.SubscribeType(ioc.TypeOf[T](), func(msg any) {
		fn(msg.(T))
	})
}

// Send publishes msg and returns how many subscribers received it.
func Send[T any](b Bus, msg T) int {
	return b.Publish(msg)
}

// SubscribeWeak calls fn with recipient for every message of type T, without
// keeping recipient alive. Once recipient has been collected the
// subscription removes itself on the next matching publish.
func SubscribeWeak[T any, R any](m *Messenger, recipient *R, fn func(*R, T)) Token {
	ref := weak.Make(recipient)
	return m.add(ioc.TypeOf[T](), func(msg any) error {
		r := ref.Value()
		if r == nil {
			return errGone
		}
		fn(r, msg.(T))
		return nil
	}, nil)
}

// subBuf is the default channel buffer of SubscribeChan. A full channel
// drops messages instead of blocking the publisher.
const subBuf = 16

// SubscribeChan returns a channel receiving every message of type T. The
// channel is closed on Unsubscribe or Reset.
func SubscribeChan[T any](m *Messenger, buffer int) (<-chan T, Token) {
	if buffer <= 0 {
		buffer = subBuf
	}
	ch := make(chan T, buffer)
	msgType := ioc.TypeOf[T]()
	token := m.add(msgType, func(msg any) error {
		select {
		case ch <- msg.(T):
			return nil
		default:
			return fmt.Errorf("channel full, %s dropped", ioc.TypeName(msgType))
		}
	}, func() { close(ch) })
	return ch, token
}

// Handler handles messages of type T. Handlers registered in a container
// can be subscribed with SubscribeResolved.
type Handler[T any] interface {
	Handle(msg T)
}

// SubscribeResolved resolves Handler[T] (under key) from r for every message
// and hands it the message, so transient handlers get a fresh instance each
// time. Resolution failures are logged and the message is skipped for that
// subscriber.
func SubscribeResolved[T any](m *Messenger, r ioc.Resolver, key string) Token {
	return m.add(ioc.TypeOf[T](), func(msg any) error {
		h, err := ioc.Resolve[Handler[T]](r, ioc.Keyed(key))
		if err != nil {
			return err
		}
		h.Handle(msg.(T))
		return nil
	}, nil)
}

var _ Bus = (*Messenger)(nil)
