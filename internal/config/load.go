package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins). A .env file in
// the working directory is loaded into the environment first when present.
// An empty path means $QLPT_CONFIG or the per-user config.yaml.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("[config.Load] .env: %w", err)
	}

	s := Defaults()

	explicit := path != ""
	if !explicit {
		path = GetEnv(configFileEnvVar, filepath.Join(userConfigDir(), "config.yaml"))
		explicit = os.Getenv(configFileEnvVar) != ""
	}
	if err := s.loadYAML(path, explicit); err != nil {
		return nil, err
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return mainConfig{Settings: s}, nil
}

// loadYAML overlays the file onto s. A missing file is only an error when the
// caller named it explicitly.
func (s *Settings) loadYAML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("[config.Load] read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("[config.Load] parse %s: %w", path, err)
	}
	return nil
}
