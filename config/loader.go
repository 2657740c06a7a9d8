package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FIELDBATTLE"

// Flags registers the CLI flags on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("scenario", "", "scenario file to evaluate")
	fs.Bool("watch", false, "re-evaluate the scenario whenever it changes")
	fs.IntSlice("remove", nil, "unit ids to remove after the first step")
	fs.Bool("long-range", false, "use long-range visibility checks")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "rotated log file")
}

// Load merges defaults, the optional config file, FIELDBATTLE_* environment
// variables and the parsed flags, in increasing precedence.
func Load(fs *pflag.FlagSet) (Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bind := map[string]string{
		"scenario":   "scenario",
		"watch":      "watch",
		"remove":     "remove",
		"long_range": "long-range",
		"log.level":  "log-level",
		"log.file":   "log-file",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return Config{}, nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		if !fileExist(path) {
			return Config{}, nil, fmt.Errorf("config file not exist, configPath=%v", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Scenario == "" {
		return Config{}, nil, fmt.Errorf("no scenario given (use --scenario or %s_SCENARIO)", envPrefix)
	}
	return cfg, v, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.FileDir)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.dev", d.Log.Dev)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("long_range", d.LongRange)
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
