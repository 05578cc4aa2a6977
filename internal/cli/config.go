package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyEngine      = "engine"
	cfgKeyDir         = "dir"
	cfgKeyExtension   = "extension"
	cfgKeyJournal     = "journal"
	cfgKeyLogLevel    = "log_level"
	cfgKeyTraceDepth  = "trace.depth"
	cfgKeyTraceValues = "trace.values"

	defaultLogLevel    = "warn"
	defaultTraceDepth  = 8
	defaultTraceValues = 7
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Engine    string      `yaml:"engine"`
	Dir       string      `yaml:"dir,omitempty"`
	Extension string      `yaml:"extension"`
	Journal   string      `yaml:"journal"`
	LogLevel  string      `yaml:"log_level"`
	Trace     traceConfig `yaml:"trace"`
}

type traceConfig struct {
	Depth  int `yaml:"depth"`
	Values int `yaml:"values"`
}

func defaultConfigFile(dir string) configFile {
	return configFile{
		Engine:    types.EngineSQLite,
		Dir:       dir,
		Extension: types.DefaultExtension,
		Journal:   types.JournalWAL,
		LogLevel:  defaultLogLevel,
		Trace:     traceConfig{Depth: defaultTraceDepth, Values: defaultTraceValues},
	}
}

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if _, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyEngine, types.EngineSQLite)
	v.SetDefault(cfgKeyExtension, types.DefaultExtension)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyTraceDepth, defaultTraceDepth)
	v.SetDefault(cfgKeyTraceValues, defaultTraceValues)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(path, dir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := writeConfigFile(path, defaultConfigFile(dir)); err != nil {
		return false, err
	}
	return true, nil
}

func writeConfigFile(path string, cfg configFile) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readConfigFile decodes an existing config.yaml.
func readConfigFile(path string) (configFile, error) {
	var cfg configFile
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
