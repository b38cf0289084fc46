package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/woolly-dev/woolly/internal/paths"
	"github.com/woolly-dev/woolly/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "WOOLLY"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyRemote     = "remote"
	cfgKeyServerAddr = "server.addr"
	cfgKeyLogLevel   = "log.level"
	cfgKeyLogFormat  = "log.format"
	cfgKeyLogFile    = "log.file"

	defaultBackend    = types.BackendFile
	defaultServerAddr = "127.0.0.1:7878"
)

// configFile is the structure init writes to config.yaml.
type configFile struct {
	Backend string        `yaml:"backend"`
	DataDir string        `yaml:"data_dir,omitempty"`
	Remote  string        `yaml:"remote,omitempty"`
	Server  serverSection `yaml:"server"`
	Log     logSection    `yaml:"log"`
}

type serverSection struct {
	Addr string `yaml:"addr"`
}

type logSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend: defaultBackend,
		Server:  serverSection{Addr: defaultServerAddr},
		Log:     logSection{Level: "info", Format: "text"},
	}
}

// loadConfig reads config.yaml from home using Viper. It creates home and
// a default config.yaml on first run. WOOLLY_* environment variables
// override file values (WOOLLY_SERVER_ADDR for server.addr).
func loadConfig(home string) (*viper.Viper, error) {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("ensure home dir: %w", err)
	}
	if _, err := writeConfigIfMissing(paths.ConfigFile(home), defaultConfigFile()); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(home)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing writes cfg to path unless the file exists. It
// reports whether it wrote.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# woolly configuration\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}

// writeConfig overwrites path with cfg.
func writeConfig(path string, cfg configFile) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte("# woolly configuration\n"), data...), 0o644)
}

// readConfigFile parses config.yaml as written by init.
func readConfigFile(path string) (configFile, error) {
	cfg := defaultConfigFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
