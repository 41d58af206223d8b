package config

import "authloop/internal/prompt"

// AppConfig is the top-level configuration structure for authloop.
type AppConfig struct {
	// Name identifies the stored authorization record (default: authloop).
	Name string `yaml:"name,omitempty"`

	TokenURL     string   `yaml:"token_url,omitempty"`     // OAuth2 token endpoint (required by login and get)
	RevokeURL    string   `yaml:"revoke_url,omitempty"`    // RFC 7009 revocation endpoint (optional)
	ClientID     string   `yaml:"client_id,omitempty"`     // OAuth2 client id
	ClientSecret string   `yaml:"client_secret,omitempty"` // OAuth2 client secret, empty for public clients
	Scopes       []string `yaml:"scopes,omitempty"`        // Requested scopes

	// Prompt lists the credential fields to ask for. Empty means username and password.
	Prompt prompt.Spec `yaml:"prompt,omitempty"`

	// StoreDir overrides the directory holding <name>/auth.yaml (default: ~/.config).
	StoreDir string `yaml:"store_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error (default: warn).
	LogLevel string `yaml:"log_level,omitempty"`
}
