// Package authorizer implements the authenticate-and-retry loop.
//
// A Controller owns a persisted authorization Record. When work done under
// Ensure reports ErrAuthRequired, the controller prompts for credentials,
// passes them to the configured AcquireFunc and merges the accepted result
// into the store, then runs the work again with a fresh snapshot. Rejected
// credentials (a nil result) lead to another prompt; prompt, backend and
// store failures end the call. Revoke runs the same cycle against a
// RevokeFunc and deletes the keys it returns.
//
// A Provider, obtained from Controller.CreateProvider, turns any Request into
// a Decorated call with Wrap. Requests report an Outcome: Success, AuthRequired
// or Failed. Settle converts the (value, error) convention where a falsy value
// means "not authorized".
//
//	ctrl, err := authorizer.New(authorizer.Config{
//	    Name:    "my-app",
//	    Acquire: backend.Acquire,
//	    Revoke:  backend.Revoke,
//	})
//	provider, err := ctrl.CreateProvider(authorizer.ProviderConfig{OnError: report})
//	get := authorizer.Wrap(provider, fetcher.Get)
//	body, err := get(ctx, "https://api.example.com/me")
//
// Calls block until they finish; ctx cancels prompting and is passed to every
// collaborator. Overlapping calls on one Controller are not serialized.
package authorizer
