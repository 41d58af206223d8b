// Package store persists the authorization record that the authorizer
// acquires and revokes.
//
// A record is a flat map from string keys to values chosen by the auth
// backend (tokens, expiry, scope). FileStore keeps it in a YAML file named
// after the application so it survives process restarts; MemoryStore keeps
// it in memory. Watcher notifies when the record file changes on disk.
package store
