package ioc

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-ioc-boot/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ResolveWithRetry resolves T up to attempts times, doubling the delay
// between attempts starting at baseDelay. Only construction failures are
// retried (a factory whose backend is not up yet); unregistered services,
// cycles and unresolvable defaults fail immediately.
func ResolveWithRetry[T any](ctx context.Context, r Resolver, attempts int, baseDelay time.Duration, opts ...ResolveOption) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	limiter := rate.NewLimiter(rate.Every(baseDelay), 1)

	var (
		zero T
		err  error
	)
	for try := 1; try <= attempts; try++ {
		if werr := limiter.Wait(ctx); werr != nil {
			if err != nil {
				return zero, err
			}
			return zero, werr
		}

		var v T
		v, err = Resolve[T](r, opts...)
		if err == nil {
			return v, nil
		}
		if !IsReason(err, ReasonConstructionFailed) {
			return zero, err
		}
		logger.Warn("Failed attempt. ", zap.String("service", TypeName(TypeOf[T]())),
			zap.Int("Try", try), zap.Error(err))
		limiter.SetLimit(rate.Every(retryDelay(baseDelay, try)))
	}
	return zero, err
}

// maxRetryDelay caps the doubling in retryDelay unless baseDelay is larger.
const maxRetryDelay = time.Minute

// retryDelay is baseDelay doubled try times, capped at maxRetryDelay (or at
// baseDelay itself when that is larger).
func retryDelay(baseDelay time.Duration, try int) time.Duration {
	limit := max(baseDelay, maxRetryDelay)
	d := baseDelay
	for i := 0; i < try && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}
