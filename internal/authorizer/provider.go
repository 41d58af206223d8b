package authorizer

import (
	"context"
	"errors"

	"authloop/pkg/logging"
)

// AuthHolder receives the current snapshot before every request attempt.
// It lets requests pick up authorization from shared state, such as an HTTP
// transport, instead of through their auth argument.
type AuthHolder interface {
	SetAuth(snapshot Record)
}

// ProviderConfig configures a Provider.
type ProviderConfig struct {
	// Holder, when set, is given each snapshot and requests receive a nil auth
	// argument. When unset, the snapshot is passed as the auth argument.
	Holder AuthHolder

	// OnError receives every failure of a decorated call: request failures,
	// failed acquisition cycles and store errors. Required.
	OnError func(error)
}

// Provider decorates requests with transparent authorization.
// Create one with Controller.CreateProvider and apply it with Wrap.
type Provider struct {
	controller *Controller
	holder     AuthHolder
	onError    func(error)
}

// CreateProvider builds a Provider on top of c.
func (c *Controller) CreateProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.OnError == nil {
		return nil, &ConfigurationError{Field: "OnError", Reason: "an error handler is required"}
	}
	return &Provider{
		controller: c,
		holder:     cfg.Holder,
		onError:    cfg.OnError,
	}, nil
}

// Request is an operation that needs authorization. auth is the current
// snapshot, or nil when the provider publishes snapshots through a Holder.
type Request[A, T any] func(ctx context.Context, auth Record, arg A) Outcome[T]

// Decorated is a Request with authorization handled for it.
type Decorated[A, T any] func(ctx context.Context, arg A) (T, error)

// requestFailure carries a Failed outcome through Ensure. It has no Unwrap:
// a request error must never match ErrAuthRequired.
type requestFailure struct {
	err error
}

func (f *requestFailure) Error() string { return f.err.Error() }

// Wrap decorates request. Every call of the result:
//
//  1. takes a fresh snapshot and hands it to the request
//  2. returns the value of a Success
//  3. on AuthRequired, runs an acquisition cycle and repeats from 1
//  4. on Failed, or when acquisition fails, passes the error to OnError and returns it
func Wrap[A, T any](p *Provider, request Request[A, T]) Decorated[A, T] {
	return func(ctx context.Context, arg A) (T, error) {
		var result T
		err := p.controller.Ensure(ctx, func(ctx context.Context, snapshot Record) error {
			auth := snapshot
			if p.holder != nil {
				p.holder.SetAuth(snapshot)
				auth = nil
			}

			outcome := request(ctx, auth, arg)
			switch outcome.kind {
			case outcomeFailed:
				return &requestFailure{err: outcome.err}
			case outcomeSuccess:
				result = outcome.value
				return nil
			default:
				logging.Debug("Provider", "Request for %s reported insufficient authorization", p.controller.name)
				return ErrAuthRequired
			}
		})
		if err != nil {
			var failure *requestFailure
			if errors.As(err, &failure) {
				err = failure.err
			}
			p.onError(err)

			var zero T
			return zero, err
		}
		return result, nil
	}
}
