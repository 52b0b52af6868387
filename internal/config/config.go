package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	File     string `mapstructure:"file" validate:"required"`
	Key      int    `mapstructure:"key" validate:"gte=0,lte=127"`
	Velocity int    `mapstructure:"velocity" validate:"gte=0,lte=127"`
	// Bank and Program select presets; -1 matches any.
	Bank    int    `mapstructure:"bank" validate:"gte=-1,lte=16383"`
	Program int    `mapstructure:"program" validate:"gte=-1,lte=127"`
	Format  string `mapstructure:"format" validate:"oneof=yaml text"`
	Trace   string `mapstructure:"trace" validate:"oneof=error info debug"`
}

// Load reads settings from, in increasing priority: defaults, an optional
// sf2zones.yaml, SF2ZONES_* environment variables and command-line flags.
func Load(args []string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("sf2zones")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables
	v.SetEnvPrefix("SF2ZONES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("file", "")
	v.SetDefault("key", 60)
	v.SetDefault("velocity", 100)
	v.SetDefault("bank", -1)
	v.SetDefault("program", -1)
	v.SetDefault("format", "yaml")
	v.SetDefault("trace", "error")

	flags := pflag.NewFlagSet("sf2zones", pflag.ContinueOnError)
	flags.StringP("file", "f", "", "SoundFont file to read")
	flags.IntP("key", "k", 60, "MIDI key to match zones against")
	flags.IntP("velocity", "v", 100, "MIDI velocity to match zones against")
	flags.Int("bank", -1, "only report presets of this bank")
	flags.Int("program", -1, "only report presets with this program number")
	flags.String("format", "yaml", "output format: yaml or text")
	flags.String("trace", "error", "trace level: error, info or debug")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	if flags.NArg() > 0 && !flags.Changed("file") {
		v.Set("file", flags.Arg(0))
	}

	// Try to read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
