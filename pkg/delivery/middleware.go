// Package delivery composes submission backends: middleware that wraps a
// ports.Submitter with logging and timeouts, and fan-out to
// several backends.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
)

// Middleware wraps a submitter.
type Middleware func(next ports.Submitter) ports.Submitter

// Chain applies the middleware so that the first one is the outermost.
func Chain(s ports.Submitter, mws ...Middleware) ports.Submitter {
	for i := len(mws) - 1; i >= 0; i-- {
		s = mws[i](s)
	}
	return s
}

// Timeout bounds every call to the wrapped submitter.
func Timeout(d time.Duration) Middleware {
	return func(next ports.Submitter) ports.Submitter {
		if d <= 0 {
			return next
		}
		return ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Submit(ctx, sub)
		})
	}
}

// Logging records the outcome and latency of every delivery under the given backend name.
func Logging(logger *slog.Logger, backend string) Middleware {
	return func(next ports.Submitter) ports.Submitter {
		return ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
			start := time.Now()
			err := next.Submit(ctx, sub)
			attrs := []any{"backend", backend, "duration", time.Since(start)}
			if err != nil {
				logger.Warn("Delivery failed", append(attrs, "err", err)...)
			} else {
				logger.Debug("Delivered", attrs...)
			}
			return err
		})
	}
}

// Fanout delivers to every backend in order. The submission is accepted only if
// all of them accept it; the errors of every failing backend are joined.
func Fanout(backends ...ports.Submitter) ports.Submitter {
	if len(backends) == 1 {
		return backends[0]
	}
	return ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		var errs []error
		for i, b := range backends {
			if err := b.Submit(ctx, sub); err != nil {
				errs = append(errs, fmt.Errorf("backend %d: %w", i, err))
			}
		}
		return errors.Join(errs...)
	})
}
