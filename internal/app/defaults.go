package app

import (
	"fmt"
	"os"
	"path/filepath"

	"mvx/internal/config"
)

// Defaults are the locations mvx uses when the config file does not say otherwise.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults resolves the config file and data locations. Each is taken
// from the first source that is set:
//
//	config file: $MVX_CONFIG_PATH, $XDG_CONFIG_HOME/mvx.toml, ~/.config/mvx.toml
//	base dir:    $MVX_HOME, $XDG_DATA_HOME/mvx, ~/.local/share/mvx
//
// Relative XDG values are ignored, as the XDG base directory rules require.
func GetDefaults() (*Defaults, error) {
	configPath, err := resolveDir("MVX_CONFIG_PATH", "XDG_CONFIG_HOME", "mvx.toml", ".config")
	if err != nil {
		return nil, fmt.Errorf("locating config file: %w", err)
	}

	baseDir, err := resolveDir("MVX_HOME", "XDG_DATA_HOME", "mvx", ".local", "share")
	if err != nil {
		return nil, fmt.Errorf("locating data directory: %w", err)
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// LoadConfig resolves the defaults and reads the config file on top of them.
// A missing config file yields the defaults.
func LoadConfig() (*Defaults, *config.Config, error) {
	d, err := GetDefaults()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.ReadOrDefault(d.ConfigPath, d.BaseDir)
	if err != nil {
		return nil, nil, err
	}
	return d, cfg, nil
}

// resolveDir returns $override verbatim, else name under $xdgVar, else name
// under the home-relative fallback directory.
func resolveDir(override, xdgVar, name string, homeFallback ...string) (string, error) {
	if path := os.Getenv(override); path != "" {
		return path, nil
	}

	if xdg := os.Getenv(xdgVar); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, name), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no %s set and no home directory: %w", override, err)
	}
	return filepath.Join(append(append([]string{homeDir}, homeFallback...), name)...), nil
}
