package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for configuration environment variables
const EnvPrefix = "ENZYME_"

// LoadOptions selects the user configuration file
type LoadOptions struct {
	// Paths resolves the default config file location. May be nil.
	Paths paths.Paths
	// ConfigFile is an explicit file that must exist (the --config flag).
	ConfigFile string
	// Overrides are applied last, keyed by dotted path.
	Overrides map[string]interface{}
}

// Default returns the configuration described by the embedded defaults
func Default() *Config {
	cfg, err := decode(mustDefaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds the layered configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")

	k, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	userFile, required := opts.ConfigFile, true
	if userFile == "" && opts.Paths != nil {
		userFile, required = opts.Paths.ConfigFilePath(), false
	}
	if userFile != "" {
		if _, statErr := os.Stat(userFile); statErr == nil {
			if err := k.Load(file.Provider(userFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", userFile).
					WithDetail("path", userFile)
			}
			logger.Debug().Str("path", userFile).Msg("Loaded user config")
		} else if required {
			return nil, errors.Wrapf(statErr, errors.ErrConfigLoad, "config file %s not found", userFile).
				WithDetail("path", userFile)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	return decode(k)
}

// envKey maps ENZYME_EXECUTION_COMMAND_TIMEOUT to execution.command_timeout.
// Only the first underscore after the section is a separator.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func loadDefaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return k, nil
}

func mustDefaults() *koanf.Koanf {
	k, err := loadDefaults()
	if err != nil {
		panic(err)
	}
	return k
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// HistoryPath returns the configured history location, falling back to
// the data directory of p.
func (c *Config) HistoryPath(p paths.Paths) string {
	if c.History.Path != "" {
		return paths.ExpandHome(c.History.Path)
	}
	if c.History.Backend == BackendSQLite {
		return p.HistoryDBPath()
	}
	return p.HistoryPath()
}
