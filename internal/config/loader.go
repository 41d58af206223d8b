package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"authloop/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/authloop"
	configFileName = "config.yaml"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := osUserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// ConfigFilePath returns the path of config.yaml inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from the specified directory. A missing file
// yields the defaults; fields absent from the file keep their default value.
func LoadConfig(configPath string) (AppConfig, error) {
	configFilePath := ConfigFilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return AppConfig{}, NewConfigurationError(configFilePath, "io", "cannot read configuration file", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return AppConfig{}, NewConfigurationError(configFilePath, "parse", "malformed configuration file", err)
	}
	if config.Name == "" {
		config.Name = DefaultName
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}

	if err := config.Validate(); err != nil {
		cfgErr := NewConfigurationError(configFilePath, "validation", "invalid configuration", err)
		cfgErr.Suggestions = []string{"Check the field names and values in " + configFileName}
		return AppConfig{}, cfgErr
	}

	logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
