package async

import "context"

type Result[T any] struct {
	Data T
	Err  error
}

func Await[T any](ch <-chan Result[T]) (T, error) {
	res := <-ch
	return res.Data, res.Err
}

// AwaitContext is Await that gives up when ctx is done.
func AwaitContext[T any](ctx context.Context, ch <-chan Result[T]) (T, error) {
	select {
	case res := <-ch:
		return res.Data, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitAll waits for every channel and returns the results in argument order
// together with the first error received.
func AwaitAll[T any](chs ...<-chan Result[T]) ([]T, error) {
	type pair struct {
		i int
		r Result[T]
	}

	out := make(chan pair, len(chs))
	for i, ch := range chs {
		go func() { out <- pair{i, <-ch} }()
	}

	results := make([]T, len(chs))
	var firstErr error
	for range chs {
		p := <-out // drains every channel
		if firstErr == nil {
			firstErr = p.r.Err
		}
		results[p.i] = p.r.Data
	}
	return results, firstErr
}

func Go[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1) // buffered so sender never blocks
	go func() {
		defer close(ch)
		v, err := fn()
		ch <- Result[T]{Data: v, Err: err}
	}()
	return ch
}
