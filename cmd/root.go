package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/go-ballot/config"
)

// bindings map configuration keys to the flags that override them.
var bindings = map[string]string{
	"main.data-dir":       "data-dir",
	"main.db-connections": "db-connections",
	"main.metrics-push":   "metrics-push",
	"logging.level":       "log-level",
	"logging.encoder":     "log-encoder",
	"vm.cache-size":       "cache-size",
	"address.network-hrp": "hrp",
}

// AddFlags adds flags shared by all commands. Defaults are taken from conf.
func AddFlags(flags *pflag.FlagSet, conf *config.Config) {
	flags.StringP("config", "c", conf.ConfigFile, "load configuration from file")
	flags.StringP("data-dir", "d", conf.DataDir, "directory with the elections database")
	flags.Int("db-connections", conf.DatabaseConnections, "size of the database connections pool")
	flags.String("metrics-push", conf.MetricsPush, "push metrics to the prometheus pushgateway at this url")
	flags.String("log-level", conf.Logging.Level, "log level (debug, info, warn, error)")
	flags.String("log-encoder", conf.Logging.Encoder, "log encoder (console or json)")
	flags.Int("cache-size", conf.VM.CacheSize, "number of accounts cached by the vm")
	flags.String("hrp", conf.Address.NetworkHRP, "human readable part of bech32 addresses")
}

// LoadConfig reads config file and overrides it with flags that were set explicitly.
// Flags that were not set fall back to the file and then to their defaults.
func LoadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	vip := viper.New()
	if err := config.LoadConfig(path, vip); err != nil {
		return nil, err
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return nil, fmt.Errorf("flag %s is not defined", name)
		}
		if err := vip.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	conf, err := config.Unmarshal(vip)
	if err != nil {
		return nil, err
	}
	conf.ConfigFile = path
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &conf, nil
}
