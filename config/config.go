// Package config loads the application configuration from a yaml file, environment overrides and
// defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aouyang1/go-climate-forecaster"
	"github.com/aouyang1/go-climate-forecaster/horizon"
	"github.com/aouyang1/go-climate-forecaster/store"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/spf13/viper"
)

const EnvPrefix = "CLIMATECAST"

var (
	ErrInvalidBackend      = errors.New("invalid store backend")
	ErrInvalidLogLevel     = errors.New("invalid logging level")
	ErrInvalidLogFormat    = errors.New("invalid logging format")
	ErrInvalidTerminalDate = errors.New("invalid forecast terminal date")
	ErrMissingAddr         = errors.New("server address is required")
)

// Config is the application configuration
type Config struct {
	// DataDir holds the raw source files used for training
	DataDir string `mapstructure:"data_dir"`

	// ModelDir holds the cleaned series and model artifacts of the file store
	ModelDir string `mapstructure:"model_dir"`

	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Forecast ForecastConfig `mapstructure:"forecast"`
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	Compress   bool   `mapstructure:"compress"`
	BadgerPath string `mapstructure:"badger_path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ForecastConfig struct {
	// TerminalDate is the last forecast month as YYYY-MM or YYYY-MM-DD
	TerminalDate  string  `mapstructure:"terminal_date"`
	Concurrent    bool    `mapstructure:"concurrent"`
	LookupDefault float64 `mapstructure:"lookup_default"`
}

// Load reads the config file at path, or config.yaml from the working directory or ./configs when
// path is empty. A missing default file is not an error. Every key can be overridden with a
// CLIMATECAST_ prefixed environment variable, e.g. CLIMATECAST_STORE_BACKEND.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config, %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./data")
	v.SetDefault("model_dir", "./models")

	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.compress", false)
	v.SetDefault("store.badger_path", "./models/badger")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("forecast.terminal_date", horizon.TerminalDate.Format("2006-01"))
	v.SetDefault("forecast.concurrent", true)
	v.SetDefault("forecast.lookup_default", 0.0)
}

// Default returns the configuration used when no file or environment override is present
func Default() *Config {
	return &Config{
		DataDir:  "./data",
		ModelDir: "./models",
		Store: StoreConfig{
			Backend:    store.BackendFile,
			BadgerPath: "./models/badger",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Forecast: ForecastConfig{
			TerminalDate: horizon.TerminalDate.Format("2006-01"),
			Concurrent:   true,
		},
	}
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendFile, store.BackendBadger:
	default:
		return fmt.Errorf("%q, %w", c.Store.Backend, ErrInvalidBackend)
	}
	if _, err := c.Logging.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%q, %w", c.Logging.Format, ErrInvalidLogFormat)
	}
	if _, err := c.Forecast.terminal(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	return nil
}

func (l LoggingConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("%q, %w", l.Level, ErrInvalidLogLevel)
	}
	return lvl, nil
}

// NewLogger builds the slog logger described by the logging section writing to w
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.Logging.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(c.Logging.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%q, %w", c.Logging.Format, ErrInvalidLogFormat)
}

func (f ForecastConfig) terminal() (time.Time, error) {
	for _, layout := range []string{"2006-01", time.DateOnly} {
		if t, err := time.Parse(layout, strings.TrimSpace(f.TerminalDate)); err == nil {
			return timedataset.MonthEnd(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", f.TerminalDate, ErrInvalidTerminalDate)
}

// ForecastOptions converts the forecast section into forecaster options
func (c *Config) ForecastOptions() (*forecaster.Options, error) {
	terminal, err := c.Forecast.terminal()
	if err != nil {
		return nil, err
	}
	opt := forecaster.NewDefaultOptions()
	opt.TerminalDate = terminal
	opt.Concurrent = c.Forecast.Concurrent
	opt.LookupDefault = c.Forecast.LookupDefault
	return opt, nil
}

// StoreConfig converts the store section into the store backend configuration. Badger logs are
// sent to logger when non-nil.
func (c *Config) StoreConfig(logger *slog.Logger) store.Config {
	badgerCfg := store.DefaultBadgerConfig(c.Store.BadgerPath)
	badgerCfg.Logger = logger
	return store.Config{
		Backend:  c.Store.Backend,
		ModelDir: c.ModelDir,
		Compress: c.Store.Compress,
		Badger:   badgerCfg,
	}
}
