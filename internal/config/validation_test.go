package config

import (
	"testing"

	"authloop/internal/prompt"

	"github.com/stretchr/testify/assert"
)

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*AppConfig)
		wantFields []string
	}{
		{
			name:   "defaults",
			modify: func(*AppConfig) {},
		},
		{
			name:       "blank name",
			modify:     func(c *AppConfig) { c.Name = "  " },
			wantFields: []string{"name"},
		},
		{
			name:       "name with separator",
			modify:     func(c *AppConfig) { c.Name = "a/b" },
			wantFields: []string{"name"},
		},
		{
			name:   "upper case log level",
			modify: func(c *AppConfig) { c.LogLevel = "DEBUG" },
		},
		{
			name:       "unknown log level",
			modify:     func(c *AppConfig) { c.LogLevel = "verbose" },
			wantFields: []string{"log_level"},
		},
		{
			name: "bad urls",
			modify: func(c *AppConfig) {
				c.TokenURL = "auth.example.com/token"
				c.RevokeURL = "ftp://auth.example.com/revoke"
			},
			wantFields: []string{"token_url", "revoke_url"},
		},
		{
			name:       "duplicate prompt field",
			modify:     func(c *AppConfig) { c.Prompt = prompt.Spec{{Name: "otp"}, {Name: "otp"}} },
			wantFields: []string{"prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			errs, ok := err.(ValidationErrors)
			if assert.True(t, ok, "expected ValidationErrors, got %T", err) {
				var fields []string
				for _, e := range errs {
					fields = append(fields, e.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}

func TestAppConfig_ValidateBackend(t *testing.T) {
	cfg := GetDefaultConfig()
	err := cfg.ValidateBackend()
	assert.EqualError(t, err, "field 'token_url': is required for login")

	cfg.TokenURL = "https://auth.example.com/token"
	assert.NoError(t, cfg.ValidateBackend())
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("name", "is required")
	assert.Equal(t, "field 'name': is required", errs.Error())

	errs.Add("", "something else")
	assert.Equal(t, "validation failed: field 'name': is required; something else", errs.Error())
}
