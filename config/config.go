package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nutok/nutok/tiles"
)

const (
	ConfigOrder           = "order"
	ConfigPlayers         = "players"
	ConfigHistoryPath     = "history-path"
	ConfigDBPath          = "db-path"
	ConfigSeed            = "seed"
	ConfigPickAttempts    = "pick-attempts"
	ConfigAutoplayGames   = "autoplay-games"
	ConfigAutoplayThreads = "autoplay-threads"
	ConfigDebug           = "debug"
	ConfigCPUProfile      = "cpu-profile"
	ConfigConfigDir       = "config-dir"

	envPrefix      = "NUTOK"
	configFileName = "config"
	configFileType = "yaml"
)

var ErrUnknownKey = errors.New("unknown config key")

// Config layers command-line flags over NUTOK_* environment variables over
// the config file over the defaults.
type Config struct {
	*viper.Viper
}

type setting struct {
	def   any
	usage string
}

var settings = map[string]setting{
	ConfigOrder:           {6, "number of shapes and colors in play (1 to 8)"},
	ConfigPlayers:         {2, "number of players in a new game"},
	ConfigHistoryPath:     {"./history", "directory finished games are written to"},
	ConfigDBPath:          {"./nutok.db", "sqlite database file"},
	ConfigSeed:            {uint64(0), "random seed; 0 picks one"},
	ConfigPickAttempts:    {20, "draws an automatic game tries before giving up"},
	ConfigAutoplayGames:   {100, "number of automatic games per run"},
	ConfigAutoplayThreads: {4, "number of automatic games played at once"},
	ConfigDebug:           {false, "debug logging on"},
	ConfigCPUProfile:      {"", "write a CPU profile to this file"},
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nutok"
	}
	return filepath.Join(home, ".nutok")
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	for key, s := range settings {
		c.SetDefault(key, s.def)
	}
	c.SetDefault(ConfigConfigDir, defaultConfigDir())
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c
}

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("nutok", pflag.ContinueOnError)
	fs.Int(ConfigOrder, settings[ConfigOrder].def.(int), settings[ConfigOrder].usage)
	fs.Int(ConfigPlayers, settings[ConfigPlayers].def.(int), settings[ConfigPlayers].usage)
	fs.String(ConfigHistoryPath, settings[ConfigHistoryPath].def.(string), settings[ConfigHistoryPath].usage)
	fs.String(ConfigDBPath, settings[ConfigDBPath].def.(string), settings[ConfigDBPath].usage)
	fs.Uint64(ConfigSeed, 0, settings[ConfigSeed].usage)
	fs.Int(ConfigPickAttempts, settings[ConfigPickAttempts].def.(int), settings[ConfigPickAttempts].usage)
	fs.Int(ConfigAutoplayGames, settings[ConfigAutoplayGames].def.(int), settings[ConfigAutoplayGames].usage)
	fs.Int(ConfigAutoplayThreads, settings[ConfigAutoplayThreads].def.(int), settings[ConfigAutoplayThreads].usage)
	fs.Bool(ConfigDebug, false, settings[ConfigDebug].usage)
	fs.String(ConfigCPUProfile, "", settings[ConfigCPUProfile].usage)
	fs.String(ConfigConfigDir, defaultConfigDir(), "directory holding config.yaml")
	return fs
}

// Load parses args, reads config.yaml from the config directory if there
// is one, and validates the result. It returns the arguments left after
// the flags.
func (c *Config) Load(args []string) ([]string, error) {
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.BindPFlags(fs); err != nil {
		return nil, err
	}

	c.SetConfigName(configFileName)
	c.SetConfigType(configFileType)
	c.AddConfigPath(c.GetString(ConfigConfigDir))
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fs.Args(), c.Validate()
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	order := c.GetInt(ConfigOrder)
	if order < 1 || order > tiles.MaxOrder {
		return fmt.Errorf("%s %d: %w", ConfigOrder, order, tiles.ErrInvalidOrder)
	}
	for _, key := range []string{ConfigPlayers, ConfigPickAttempts, ConfigAutoplayGames, ConfigAutoplayThreads} {
		if c.GetInt(key) < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", key, c.GetInt(key))
		}
	}
	for _, key := range []string{ConfigHistoryPath, ConfigDBPath} {
		if c.GetString(key) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

// SetFromString sets a known key from its textual value, as typed in the
// shell, and validates the result. A rejected value leaves the config
// unchanged.
func (c *Config) SetFromString(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrUnknownKey)
	}
	var v any
	var err error
	switch s.def.(type) {
	case int:
		v, err = strconv.Atoi(value)
	case uint64:
		v, err = strconv.ParseUint(value, 10, 64)
	case bool:
		v, err = strconv.ParseBool(value)
	default:
		v = value
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	old := c.Get(key)
	c.Set(key, v)
	if err := c.Validate(); err != nil {
		c.Set(key, old)
		return err
	}
	return nil
}

// Keys lists the settings that can be changed, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Write saves the current settings to config.yaml in the config directory.
func (c *Config) Write() (string, error) {
	dir := c.GetString(ConfigConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := viper.New()
	for key := range settings {
		out.Set(key, c.Get(key))
	}
	path := filepath.Join(dir, configFileName+"."+configFileType)
	if err := out.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, nil
}
