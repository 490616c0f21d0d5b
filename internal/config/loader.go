package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/ktile"
	projectConfigDir = ".ktile"
	configFileName   = "config.yaml"
)

// LoadConfig loads the ktile configuration by layering default, user, and
// project settings. Later layers win. Keys a file does not mention keep their
// earlier values, so keybinding groups merge per command name.
func LoadConfig() (Config, error) {
	config := DefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; don't fail.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		if err := applyConfigFile(&config, userConfigPath); err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		if err := applyConfigFile(&config, projectConfigPath); err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// applyConfigFile decodes the YAML file at path over config. yaml.v3 leaves
// fields the document does not mention untouched and adds map keys to existing
// maps, which is exactly the overlay semantics LoadConfig wants.
func applyConfigFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

// ConfigPaths returns the user and project config file paths in load order,
// whether or not the files exist. The hot-reload watcher uses these.
func ConfigPaths() []string {
	var paths []string
	if p, err := getUserConfigPath(); err == nil {
		paths = append(paths, p)
	}
	if p, err := getProjectConfigPath(); err == nil {
		paths = append(paths, p)
	}
	return paths
}

// GetUserConfigDir returns the user configuration directory path. Query
// history and saved queries live there too.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
