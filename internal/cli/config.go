package cli

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/toyz/iocscan/internal/bundle"
	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/internal/typeindex"
	"github.com/toyz/iocscan/internal/utils"
)

const (
	envPrefix  = "IOCSCAN"
	configName = "iocscan"
)

// Config holds the settings shared by every command.
type Config struct {
	// Extension is the bundle file extension.
	Extension string `mapstructure:"extension"`

	// InterfacePrefix marks interfaces eligible for convention matching.
	InterfacePrefix string `mapstructure:"interface_prefix"`

	// LogLevel controls both diagnostics and scanner logging.
	LogLevel string `mapstructure:"log_level"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no_color"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("extension", bundle.DefaultExtension)
	v.SetDefault("interface_prefix", typeindex.DefaultPrefix)
	v.SetDefault("log_level", "info")
	v.SetDefault("no_color", false)
}

// loadDotEnv turns IOCSCAN_ entries of a dotenv file into defaults. A missing
// file is not an error.
func loadDotEnv(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.WrapConfigurationError(path, "read", err)
	}
	for name, value := range values {
		if key, ok := strings.CutPrefix(name, envPrefix+"_"); ok {
			v.SetDefault(strings.ToLower(key), value)
		}
	}
	return nil
}

// loadConfig reads the optional dotenv and config files and unmarshals the
// merged settings. Flags win over the environment, then the config file,
// then the dotenv file.
func loadConfig(v *viper.Viper, file, envFile string) (Config, error) {
	if err := loadDotEnv(v, envFile); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return Config{}, errors.WrapConfigurationError(configName, "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapConfigurationError(configName, "decode", err)
	}
	if _, err := utils.ParseDiagnosticLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.WrapConfigurationError(configName, "validate", err)
	}
	return cfg, nil
}

// diagnostics builds the CLI output system for cfg.
func (c Config) diagnostics(a *app) *utils.DiagnosticSystem {
	level, _ := utils.ParseDiagnosticLevel(c.LogLevel)
	d := utils.NewDiagnosticSystemTo(level, a.out, a.errOut)
	if c.NoColor {
		d.SetColors(false)
	}
	return d
}

// logger builds the structured logger handed to the scanner. Only debug
// level lets scanner internals through.
func (c Config) logger(a *app) *slog.Logger {
	level, _ := utils.ParseDiagnosticLevel(c.LogLevel)
	switch {
	case level >= utils.DiagnosticDebug:
		return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case level >= utils.DiagnosticVerbose:
		return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.DiscardHandler)
	}
}
