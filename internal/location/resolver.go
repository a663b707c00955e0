package location

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/messages"
)

const defaultTimeout = 10 * time.Second

// Result is the single outcome of a Locate call. Exactly one of Found or Err
// is set, or neither when the provider had no fix.
type Result struct {
	Coordinates Coordinates
	Found       bool
	Err         error
}

// Resolver couples a Provider with a Geocoder.
type Resolver struct {
	provider Provider
	geocoder Geocoder
	timeout  time.Duration
	msgs     messages.Lookup
	log      *logrus.Entry
}

// Options configures a Resolver. Nil fields fall back to safe defaults.
type Options struct {
	Provider Provider
	Geocoder Geocoder
	Timeout  time.Duration
	Messages messages.Lookup
	Log      *logrus.Entry
}

// NewResolver builds a Resolver.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		provider: opts.Provider,
		geocoder: opts.Geocoder,
		timeout:  opts.Timeout,
		msgs:     opts.Messages,
		log:      opts.Log,
	}
	if r.provider == nil {
		r.provider = NoProvider{}
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	if r.msgs == nil {
		r.msgs = messages.Default
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	r.log = r.log.WithField("component", "location")
	return r
}

// Locate asks the provider for one fix. It returns when the provider answers,
// the timeout elapses, or ctx is cancelled, whichever comes first.
func (r *Resolver) Locate(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		c, found, err := r.provider.CurrentLocation(ctx)
		switch {
		case err != nil:
			done <- Result{Err: err}
		case found:
			done <- Result{Coordinates: c, Found: true}
		default:
			done <- Result{}
		}
	}()

	select {
	case res := <-done:
		if res.Err != nil {
			r.log.WithError(res.Err).Warn("location lookup failed")
		}
		return res
	case <-ctx.Done():
		r.log.WithError(ctx.Err()).Warn("location lookup timed out")
		return Result{Err: ctx.Err()}
	}
}

// Address reverse geocodes c once and always returns display text. Failures
// become the matching user-facing message.
func (r *Resolver) Address(ctx context.Context, c Coordinates) string {
	if r.geocoder == nil {
		return r.msgs(messages.CouldNotDetermine)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name, err := r.geocoder.ReverseGeocode(ctx, c)
	switch {
	case errors.Is(err, ErrNoAddress):
		return r.msgs(messages.NoAddressFound)
	case err != nil:
		r.log.WithError(err).WithField("coordinates", c.String()).Warn("reverse geocode failed")
		detail := err.Error()
		if detail == "" {
			detail = r.msgs(messages.UnknownError)
		}
		return r.msgs(messages.GeocodingError, detail)
	case name == "":
		return r.msgs(messages.NoAddressFound)
	}
	return name
}
