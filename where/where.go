// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cadence-player/cadence/constant"
	"github.com/cadence-player/cadence/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "CADENCE_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It prioritizes the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths elsewhere.
// Direct override: the path can be explicitly specified via the CADENCE_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Cadence))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Cadence))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the absolute path to the localized playback history persistence file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// ControlPipe resolves the well-known, user-scoped path of the remote-control named pipe.
func ControlPipe() string {
	user := os.Getenv("USER")
	if user == "" {
		user = fmt.Sprint(os.Getuid())
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-control-%s", constant.Cadence, user))
}

// BackendPipe resolves the side-channel named pipe path for a backend that accepts
// commands over its own control fifo.
func BackendPipe(name string) string {
	return ControlPipe() + "-" + name
}

// Temp resolves a unique, volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Cadence))
}
