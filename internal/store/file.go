package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"authloop/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory under the user's home where records live.
	DefaultConfigDir = ".config"

	// RecordFileName is the file holding the persisted record inside the store directory.
	RecordFileName = "auth.yaml"
)

// FileStoreConfig configures a FileStore.
type FileStoreConfig struct {
	// Name identifies the record. It becomes the directory name under Dir.
	Name string

	// Dir is the parent directory. Defaults to ~/.config.
	Dir string
}

// FileStore persists the record as YAML at <Dir>/<Name>/auth.yaml.
//
// SECURITY: the record usually holds tokens. The directory is created with
// 0700 and the file with 0600 permissions, and values are never logged.
// Writes go to a temporary file that is renamed into place, so readers see
// either the previous or the next record and never a partial one.
type FileStore struct {
	mu   sync.Mutex
	name string
	path string
}

// NewFileStore creates a FileStore. The file itself is created lazily on the first write.
func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("store name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("store name %q must not contain path separators", name)
	}

	dir := cfg.Dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DefaultConfigDir)
	}

	return &FileStore{
		name: name,
		path: filepath.Join(dir, name, RecordFileName),
	}, nil
}

// Path returns the location of the record file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) All(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Set(ctx context.Context, partial map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.read()
	if err != nil {
		return err
	}
	maps.Copy(record, partial)
	if err := s.write(record); err != nil {
		return err
	}

	logging.Debug("Store", "Merged %d key(s) into %s", len(partial), s.name)
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := record[key]; !ok {
		return nil
	}
	delete(record, key)
	if err := s.write(record); err != nil {
		return err
	}

	logging.Debug("Store", "Deleted key %s from %s", key, s.name)
	return nil
}

// read loads the record from disk. Callers must hold s.mu.
func (s *FileStore) read() (map[string]any, error) {
	// #nosec G304 -- path is built from the configured store name
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	record := map[string]any{}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if record == nil {
		// an empty document decodes to nil
		record = map[string]any{}
	}
	return record, nil
}

// write replaces the record on disk. Callers must hold s.mu.
func (s *FileStore) write(record map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace record file: %w", err)
	}
	return nil
}
