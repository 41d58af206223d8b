// Package client holds the requests authloop runs under an authorizer.Provider.
//
// Fetcher.Get is an authorizer.Request: it takes the snapshot as its auth
// argument and maps HTTP responses to outcomes. In holder mode the provider
// publishes snapshots to a TokenHolder instead and the fetcher's HTTP client,
// built with TokenHolder.Client, injects the token through oauth2.Transport.
package client
