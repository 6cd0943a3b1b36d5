package config

import (
	"os"

	"codeberg.org/mutker/scopectl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultDevice     = "/dev/ttyUSB0"
	defaultBaud       = 115200
	defaultVRef       = 3.3
	defaultMaxCode    = 4095
	defaultCapacity   = 2048
	defaultSampleRate = 100000
	defaultInterval   = 10 // milliseconds
	defaultListen     = ":8080"
	defaultDatabase   = "/var/lib/scopectl/telemetry.db"
)

type Config struct {
	Device      string  `mapstructure:"device"`
	Baud        int     `mapstructure:"baud"`
	VRef        float64 `mapstructure:"vref"`
	MaxCode     int     `mapstructure:"max_code"`
	Capacity    int     `mapstructure:"capacity"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Interval    int     `mapstructure:"interval"`
	Listen      string  `mapstructure:"listen"`
	Telemetry   bool    `mapstructure:"telemetry"`
	TelemetryDB string  `mapstructure:"database"`
	LogLevel    string  `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("device", defaultDevice)
	v.SetDefault("baud", defaultBaud)
	v.SetDefault("vref", defaultVRef)
	v.SetDefault("max_code", defaultMaxCode)
	v.SetDefault("capacity", defaultCapacity)
	v.SetDefault("sample_rate", defaultSampleRate)
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("listen", defaultListen)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultDatabase)
	v.SetDefault("log_level", DefaultLogLevel)

	// Define flags
	flags := pflag.NewFlagSet("scopectl", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.String("device", defaultDevice, "Serial device of the acquisition board")
	flags.Int("baud", defaultBaud, "Serial baud rate")
	flags.Float64("vref", defaultVRef, "ADC reference voltage")
	flags.Int("max-code", defaultMaxCode, "Full-scale ADC code")
	flags.Int("capacity", defaultCapacity, "Sample window capacity")
	flags.Float64("sample-rate", defaultSampleRate, "Assumed sampling rate in Hz")
	flags.Int("interval", defaultInterval, "Acquisition cycle interval in milliseconds")
	flags.String("listen", defaultListen, "HTTP listen address of the display sink")
	flags.Bool("telemetry", false, "Enable acquisition telemetry recording")
	flags.String("database", defaultDatabase, "Path to the telemetry database")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"device":      "device",
		"baud":        "baud",
		"vref":        "vref",
		"max_code":    "max-code",
		"capacity":    "capacity",
		"sample_rate": "sample-rate",
		"interval":    "interval",
		"listen":      "listen",
		"telemetry":   "telemetry",
		"database":    "database",
		"log_level":   "log-level",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	// Load configuration from file; an explicit path via SCOPECTL_CONFIG
	// takes precedence over the default lookup in /etc
	if path := os.Getenv("SCOPECTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scopectl")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").WithData(err.Error())
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the loaded configuration is internally consistent
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Device == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "device must not be empty")
	}
	if c.Baud <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "baud must be positive")
	}
	if c.VRef <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "vref must be positive")
	}
	if c.MaxCode <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "max_code must be positive")
	}
	if c.Capacity <= 0 {
		return errFactory.New(errors.ErrInvalidCapacity)
	}
	if c.SampleRate <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "sample_rate must be positive")
	}
	if c.Interval <= 0 {
		return errFactory.New(errors.ErrInvalidInterval)
	}
	if !isValidLogLevel(c.LogLevel) {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}
