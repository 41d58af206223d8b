// Package backend turns prompted credentials into authorization records by
// talking to an OAuth 2.0 authorization server.
//
// Acquire performs the resource owner password grant and stores the token
// fields under the Key* constants. Revoke posts the stored token to an
// RFC 7009 revocation endpoint. Both report refused credentials by returning
// nil without an error, which tells the authorizer to prompt again.
package backend
