package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/squarelist/internal/bench"
)

// configName is the config file name without extension.
const configName = ".sqbench"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for sqbench settings.
const envPrefix = "SQBENCH"

// Settings is the merged view of defaults, config file, environment and flags.
type Settings struct {
	Start             int      `mapstructure:"start"`
	Max               int      `mapstructure:"max"`
	StepsPerDecade    int      `mapstructure:"steps_per_decade"`
	Repetitions       int      `mapstructure:"repetitions"`
	MinMaxRepetitions int      `mapstructure:"minmax_repetitions"`
	Baselines         []string `mapstructure:"baselines"`
	Format            string   `mapstructure:"format"`
	MemoryLimit       string   `mapstructure:"memory_limit"`
	MetricsAddr       string   `mapstructure:"metrics_addr"`
}

// flagKeys maps command-line flags to settings keys.
var flagKeys = map[string]string{
	"start":              "start",
	"max":                "max",
	"steps-per-decade":   "steps_per_decade",
	"repetitions":        "repetitions",
	"minmax-repetitions": "minmax_repetitions",
	"baseline":           "baselines",
	"format":             "format",
	"memory-limit":       "memory_limit",
	"metrics-addr":       "metrics_addr",
}

// LoadSettings loads settings from defaults, the config file, SQBENCH_*
// environment variables and flags, later sources winning.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, .sqbench.yaml is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadSettings(configPath string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

func applyDefaults(v *viper.Viper) {
	def := bench.DefaultConfig()
	v.SetDefault("start", def.Start)
	v.SetDefault("max", def.Max)
	v.SetDefault("steps_per_decade", def.StepsPerDecade)
	v.SetDefault("repetitions", def.Repetitions)
	v.SetDefault("minmax_repetitions", def.MinMaxRepetitions)
	v.SetDefault("baselines", []string{})
	v.SetDefault("format", string(bench.FormatTable))
	v.SetDefault("memory_limit", "0")
	v.SetDefault("metrics_addr", "")
}

// BenchConfig converts the settings into a validated bench.Config.
func (s *Settings) BenchConfig() (bench.Config, error) {
	var limit uint64
	if raw := strings.TrimSpace(s.MemoryLimit); raw != "" {
		var err error
		if limit, err = humanize.ParseBytes(raw); err != nil {
			return bench.Config{}, fmt.Errorf("memory limit %q: %w", s.MemoryLimit, err)
		}
	}

	cfg := bench.Config{
		Start:             s.Start,
		Max:               s.Max,
		StepsPerDecade:    s.StepsPerDecade,
		Repetitions:       s.Repetitions,
		MinMaxRepetitions: s.MinMaxRepetitions,
		Contenders:        []string{bench.SquareList},
		MemoryLimitBytes:  int64(limit),
	}
	for _, b := range s.Baselines {
		if b = strings.TrimSpace(b); b != "" && b != bench.SquareList {
			cfg.Contenders = append(cfg.Contenders, b)
		}
	}

	if err := cfg.Validate(); err != nil {
		return bench.Config{}, err
	}
	return cfg, nil
}
