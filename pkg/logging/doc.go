// Package logging provides structured logging for authloop on top of Go's
// standard slog package.
//
// Every entry carries a subsystem identifier so output from the authorizer
// core, the stores and the HTTP adapters can be told apart:
//
//   - **Authorizer**: acquisition and revocation cycles
//   - **Provider**: wrapped request outcomes
//   - **Store**: persisted record reads and writes
//   - **Watcher**: file change notifications
//   - **Backend**: token endpoint calls
//   - **Client**: authenticated HTTP requests
//   - **Config**: configuration loading
//   - **Prompt**: credential prompting (field names only)
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Store", "Loaded record for %s", name)
//	logging.Error("Backend", err, "Token request failed")
//
// # Audit Logging
//
// Security-relevant actions are logged through Audit:
//
//	logging.Audit(logging.AuditEvent{
//	    Action:  "record_revoked",
//	    Outcome: "success",
//	    Target:  "my-app",
//	    Keys:    []string{"access_token"},
//	})
//
// Audit events are logged at INFO level with an [AUDIT] prefix. Credential and
// token values are never passed to the logger, only key and field names.
//
// Before InitForCLI is called, warnings and errors are written to stderr and
// everything else is dropped.
package logging
