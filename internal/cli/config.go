package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/agora/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyDSN        = "dsn"
	cfgKeyMaxRetries = "max_retries"
	cfgKeyLogLevel   = "log_level"

	defaultLogLevel = "warn"
)

// configFile is the structure written to config.yaml on first run.
type configFile struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir,omitempty"`
	DSN        string `yaml:"dsn,omitempty"`
	MaxRetries int    `yaml:"max_retries"`
	LogLevel   string `yaml:"log_level"`
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. AGORA_BACKEND, AGORA_DSN, and AGORA_LOG_LEVEL
// override the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyMaxRetries, types.DefaultMaxRetries)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	for _, key := range []string{cfgKeyBackend, cfgKeyDSN, cfgKeyLogLevel} {
		if err := v.BindEnv(key, "AGORA_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left alone.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:    types.BackendSQLite,
		MaxRetries: types.DefaultMaxRetries,
		LogLevel:   defaultLogLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# agora configuration\n# backend: sqlite or postgres (postgres needs dsn)\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
