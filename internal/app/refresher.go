package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/state"
)

const (
	retryBase  = 2 * time.Second
	maxBackoff = 30 * time.Second
)

// listLoader is the part of the store the refresher drives.
type listLoader interface {
	Dispatch(ctx context.Context, ev state.Event) error
	Snapshot() state.State
}

// StartRefresher reloads the product list every interval until ctx is
// cancelled. While loads keep failing it retries sooner, backing off from
// retryBase up to maxBackoff. The returned channel closes when the goroutine
// exits.
func StartRefresher(ctx context.Context, store listLoader, interval time.Duration, log *logrus.Entry) <-chan struct{} {
	done := make(chan struct{})
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithField("component", "refresher")

	go func() {
		defer close(done)
		failures := 0
		wait := interval
		timer := time.NewTimer(wait)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := store.Dispatch(ctx, state.LoadProductList{}); err != nil {
				log.WithError(err).Debug("refresher stopping")
				return
			}

			if msg := store.Snapshot().Error; msg != "" {
				wait = calculateBackoff(failures, retryBase)
				if wait > interval {
					wait = interval
				}
				failures++
				log.WithFields(logrus.Fields{"failures": failures, "retry_in": wait.String(), "error": msg}).Warn("refresh failed")
			} else {
				failures = 0
				wait = interval
			}
			timer.Reset(wait)
		}
	}()
	return done
}

// calculateBackoff doubles base once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
