package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// LocalConfigStoreAdapter implements LocalConfigRepository using .vault/config.local.json
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, "config.local.json"),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Load reads the local config, falling back to the defaults when no file exists
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	local := config.DefaultLocalConfig()
	if _, err := readJSON(s.configPath, local); err != nil {
		return nil, err
	}
	return local, nil
}

// Save writes the local config
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	return writeJSON(s.configPath, local, 0644)
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

// Ensure LocalConfigStoreAdapter implements LocalConfigRepository
var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
