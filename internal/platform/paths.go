// Package platform resolves per-OS config and data locations.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths locates the config file and the local database for one app name.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// Options selects the app name used for directory resolution.
type Options struct {
	AppName string
	DevMode bool
}

// DefaultPaths resolves paths for the current OS and environment.
func DefaultPaths(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = "worklens"
	}
	if opts.DevMode {
		appName += "-dev"
	}

	configBase, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataBase := configBase

	switch runtime.GOOS {
	case "linux":
		if v := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); v != "" {
			configBase = v
		}
		if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
			dataBase = v
		} else {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return Paths{}, fmt.Errorf("user home dir: %w", homeErr)
			}
			dataBase = filepath.Join(home, ".local", "share")
		}
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			dataBase = v
		}
	}

	return pathsFor(configBase, dataBase, appName), nil
}

func pathsFor(configBase, dataBase, appName string) Paths {
	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, appName+".db"),
	}
}
