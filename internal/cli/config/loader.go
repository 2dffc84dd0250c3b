package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the default name of the config file.
const ConfigFileName = "leapsync.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leapsync.yml"

// Default configuration values.
const (
	DefaultPartitions  = 4
	DefaultParallelism = 4
	DefaultOutputDir   = "out"
	DefaultStateFile   = ".leapsync/state.db"
)

// flagKeys maps CLI flag names onto config keys. Flags without an entry
// never reach the config.
var flagKeys = map[string]string{
	"driver":           "source.driver",
	"dsn":              "source.dsn",
	"username":         "source.username",
	"password":         "source.password",
	"table":            "job.table",
	"sql":              "job.sql",
	"columns":          "job.columns",
	"partition-column": "job.partition_column",
	"boundary-query":   "job.boundary_query",
	"partitions":       "job.partitions",
	"output-dir":       "output.dir",
	"parallelism":      "output.parallelism",
	"state-path":       "state_path",
	"verbose":          "verbose",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > leapsync.yaml > leapsync.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load loads configuration with precedence (highest wins):
// flags > environment variables (LEAPSYNC_*) > config file > defaults.
// A missing config file is only an error when explicitly requested.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"job.partitions":     DefaultPartitions,
		"output.parallelism": DefaultParallelism,
		"output.dir":         DefaultOutputDir,
		"state_path":         DefaultStateFile,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file %s not found", cfgFile)
	}

	// Environment variables: LEAPSYNC_SOURCE__DRIVER -> source.driver.
	// Double underscore nests; single underscores stay part of the key
	// (LEAPSYNC_JOB__PARTITION_COLUMN -> job.partition_column).
	if err := k.Load(env.Provider("LEAPSYNC_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "LEAPSYNC_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// CLI flags (only ones that were explicitly set)
	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
