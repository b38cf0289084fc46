// Package paths resolves the Woolly home directory and the files kept in it.
package paths

import (
	"os"
	"path/filepath"
)

// DefaultHomeDirName is the home directory created under the user's home.
const DefaultHomeDirName = ".woolly"

// ConfigFileName is the configuration file kept in the Woolly home.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvHomeDir = "WOOLLY_HOME"
	EnvDataDir = "WOOLLY_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir func() (string, error)
}{
	homeDir: os.UserHomeDir,
}

// DefaultHomeDir returns ~/.woolly for the current user.
func DefaultHomeDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultHomeDirName), nil
}

// ResolveHomeDir returns the Woolly home following the precedence chain:
// flag > WOOLLY_HOME env > DefaultHomeDir().
func ResolveHomeDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvHomeDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultHomeDir()
}

// ResolveDataDir returns the directory that holds plans following the
// precedence chain: configYAMLValue > WOOLLY_DATA_DIR env > homeDir.
func ResolveDataDir(homeDir, configYAMLValue string) (string, error) {
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return homeDir, nil
}

// ConfigFile returns the path of config.yaml inside homeDir.
func ConfigFile(homeDir string) string {
	return filepath.Join(homeDir, ConfigFileName)
}
