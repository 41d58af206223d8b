// Package config provides configuration management for authloop.
//
// Configuration is loaded from config.yaml in a single directory. The default
// directory is ~/.config/authloop; commands accept --config-path to use
// another one. A missing file is not an error: the defaults apply.
//
// # Example
//
//	name: github
//	token_url: https://auth.example.com/oauth/token
//	revoke_url: https://auth.example.com/oauth/revoke
//	client_id: authloop
//	scopes: [read, write]
//	prompt:
//	  - name: username
//	    message: Enter Github username
//	  - name: password
//	    message: Enter Github password
//	    hidden: true
//	log_level: info
//
// The authorization record itself is not part of this file. It lives in
// <store_dir>/<name>/auth.yaml and is managed by the store package.
package config
