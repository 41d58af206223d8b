// Package cli provides the terminal-facing helpers shared by authloop commands.
//
// Errors from the authorizer are mapped to user-facing types with actionable
// guidance (AuthRequiredError, AuthFailedError, ConnectionError) and from
// there to process exit codes:
//
//	0  success
//	1  general error, including failed requests
//	2  authentication required: credential input aborted or unavailable
//	3  authentication failed: authorization server or record store error
//
// RenderStatus prints an authorization record as a go-pretty table with
// secret values masked. Progress drives a spinner from authorizer state
// changes and keeps it off the screen while credentials are being typed.
package cli
