// Package config resolves codecombiner settings from defaults, an optional config file,
// a .env file, CODECOMBINER_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "CODECOMBINER"

// Config is built once at startup and handed to the collector and dispatcher.
type Config struct {
	ExtensionsFile   string `mapstructure:"extensions_file"`
	PreferencesFile  string `mapstructure:"preferences_file"`
	ModelsFile       string `mapstructure:"models_file"`
	IgnoreFile       string `mapstructure:"ignore_file"`
	GlobalIgnoreFile string `mapstructure:"global_ignore_file"`
	LogFile          string `mapstructure:"log_file"`
	Debug            bool   `mapstructure:"debug"`
	TokenCounter     string `mapstructure:"token_counter"`
}

// Default holds the values used when nothing else sets a key.
var Default = Config{
	ExtensionsFile:  "config.json",
	PreferencesFile: "preferences.json",
	ModelsFile:      "models.json",
	IgnoreFile:      ".combineignore",
	LogFile:         "file_combiner.log",
	TokenCounter:    "words",
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"extensions-file":    "extensions_file",
	"preferences-file":   "preferences_file",
	"models-file":        "models_file",
	"ignore-file":        "ignore_file",
	"global-ignore-file": "global_ignore_file",
	"log-file":           "log_file",
	"debug":              "debug",
	"token-counter":      "token_counter",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("extensions_file", Default.ExtensionsFile)
	v.SetDefault("preferences_file", Default.PreferencesFile)
	v.SetDefault("models_file", Default.ModelsFile)
	v.SetDefault("ignore_file", Default.IgnoreFile)
	v.SetDefault("global_ignore_file", Default.GlobalIgnoreFile)
	v.SetDefault("log_file", Default.LogFile)
	v.SetDefault("debug", Default.Debug)
	v.SetDefault("token_counter", Default.TokenCounter)
}

// Load resolves the configuration. configFile and envFile are optional; a missing envFile is
// not an error, a missing configFile is.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
