// Where: internal/config/file.go
// What: CLI defaults file load/save helpers.
// Why: Manage ~/.amis/config.yaml consistently.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/poruru/ami-catalog/internal/constants"
	"github.com/poruru/ami-catalog/internal/envutil"
	"github.com/poruru/ami-catalog/internal/meta"
	"gopkg.in/yaml.v3"
)

// File represents ~/.amis/config.yaml.
type File struct {
	Version   int       `yaml:"version"`
	Region    string    `yaml:"region,omitempty"`
	Table     string    `yaml:"table,omitempty"`
	Endpoints Endpoints `yaml:"endpoints,omitempty"`
	LogLevel  string    `yaml:"log_level,omitempty"`
}

// DefaultFile returns an initialized File with version set.
func DefaultFile() File {
	return File{Version: 1}
}

// FilePath returns the path to the CLI config file.
// Respects AMIS_CONFIG_PATH and AMIS_CONFIG_HOME.
func FilePath() (string, error) {
	if override := envutil.GetHostEnv(constants.HostSuffixConfigPath); override != "" {
		path := override
		if !filepath.IsAbs(path) {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
		}
		return path, nil
	}
	if override := envutil.GetHostEnv(constants.HostSuffixConfigHome); override != "" {
		return filepath.Join(override, meta.ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, meta.HomeDir, meta.ConfigFileName), nil
}

// LoadFile reads and parses the config file. A missing file yields DefaultFile.
func LoadFile(path string) (File, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultFile(), nil
		}
		return File{}, err
	}

	cfg := DefaultFile()
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg File) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, payload, 0o644)
}
