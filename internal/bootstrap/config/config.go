package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Server   ServerConfig   `mapstructure:"server"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SourcesConfig struct {
	OpenFDA OpenFDAConfig `mapstructure:"openfda"`
	Echo    EchoConfig    `mapstructure:"echo"`
}

// OpenFDAConfig drives the recall fetcher. Pauses are in milliseconds so the
// config file can express sub-second rate-limit gaps.
type OpenFDAConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	MaxPerQuery  int    `mapstructure:"max_per_query"`
	PagePauseMS  int    `mapstructure:"page_pause_ms"`
	QueryPauseMS int    `mapstructure:"query_pause_ms"`
}

// EchoConfig drives the facility fetcher. The ECHO API is slow and computes
// queries server-side, hence the poll/page attempt bounds and the overall
// wall-clock budget.
type EchoConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	MaxPerSIC    int    `mapstructure:"max_per_sic"`
	PollAttempts int    `mapstructure:"poll_attempts"`
	PageAttempts int    `mapstructure:"page_attempts"`
	PollWaitS    int    `mapstructure:"poll_wait_s"`
	BudgetS      int    `mapstructure:"budget_s"`
}

type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "farmwatch")
	v.SetDefault("app.env", "local")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/violations.sqlite")

	v.SetDefault("sources.openfda.base_url", "https://api.fda.gov/food/enforcement.json")
	v.SetDefault("sources.openfda.max_per_query", 100)
	v.SetDefault("sources.openfda.page_pause_ms", 300)
	v.SetDefault("sources.openfda.query_pause_ms", 500)

	v.SetDefault("sources.echo.base_url", "https://echodata.epa.gov/echo")
	v.SetDefault("sources.echo.max_per_sic", 100)
	v.SetDefault("sources.echo.poll_attempts", 12)
	v.SetDefault("sources.echo.page_attempts", 6)
	v.SetDefault("sources.echo.poll_wait_s", 5)
	v.SetDefault("sources.echo.budget_s", 90)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.default_page_size", 50)
	v.SetDefault("server.max_page_size", 500)
}
