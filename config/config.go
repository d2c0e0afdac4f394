// Package config contains go-ballot configuration definitions
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spacemeshos/go-ballot/common/types"
)

const (
	defaultDataDirName = ".ballot"
	// DatabaseFile is a name of the sqlite file within data directory.
	DatabaseFile = "state.sql"
)

// Config defines the top level configuration for the ballot cli.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Logging    LoggerConfig `mapstructure:"logging"`
	VM         VMConfig     `mapstructure:"vm"`
	Address    types.Config `mapstructure:"address"`
}

// BaseConfig defines the default configuration options.
type BaseConfig struct {
	DataDir    string `mapstructure:"data-dir"`
	ConfigFile string `mapstructure:"config"`

	// DatabaseConnections is the size of the sqlite connections pool.
	DatabaseConnections int `mapstructure:"db-connections"`

	// MetricsPush is an url of the prometheus pushgateway. Metrics are not pushed if empty.
	MetricsPush string `mapstructure:"metrics-push"`
}

// VMConfig configures the vm that applies election transactions.
type VMConfig struct {
	CacheSize int `mapstructure:"cache-size"`
}

// DatabasePath returns path to the sqlite file.
func (cfg *Config) DatabasePath() string {
	return filepath.Join(cfg.DataDir, DatabaseFile)
}

// Validate returns an error if the configuration can't be used.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.DataDir == "" {
		errs = append(errs, errors.New("data-dir must be set"))
	}
	if cfg.DatabaseConnections <= 0 {
		errs = append(errs, fmt.Errorf("db-connections must be positive, got %d", cfg.DatabaseConnections))
	}
	if cfg.VM.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("vm cache-size must be positive, got %d", cfg.VM.CacheSize))
	}
	if cfg.Address.NetworkHRP == "" {
		errs = append(errs, errors.New("network-hrp must be set"))
	}
	return errors.Join(errs...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		Logging:    defaultLoggingConfig(),
		VM:         VMConfig{CacheSize: 1024},
		Address:    types.DefaultAddressConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	dir := defaultDataDirName
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, defaultDataDirName)
	}
	return BaseConfig{
		DataDir:             dir,
		DatabaseConnections: 4,
	}
}

// LoadConfig reads optional config file into vip.
// Empty location means that only defaults and flags are used.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		return nil
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", fileLocation, err)
	}
	return nil
}

// Unmarshal decodes values stored in vip on top of the defaults.
func Unmarshal(vip *viper.Viper) (Config, error) {
	conf := DefaultConfig()
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	if err := vip.Unmarshal(&conf, viper.DecodeHook(hook)); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return conf, nil
}
