package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	SearchURL      string
	Headless       bool
	MaxExpansions  int
	RequestTimeout time.Duration
	ActionTimeout  time.Duration
	CardTimeout    time.Duration
	RevealTimeout  time.Duration
	MinDelay       time.Duration
	MaxDelay       time.Duration
	MaxWorkers     int
	MaxRetries     int
	OutputDir      string
	LogLevel       string
	LogFormat      string
	DBEnabled      bool
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
}

func DefaultConfig() *Config {
	return &Config{
		SearchURL:      "https://www.paginebianche.it/ricerca",
		Headless:       false,
		MaxExpansions:  1,
		RequestTimeout: 60 * time.Second,
		ActionTimeout:  10 * time.Second,
		CardTimeout:    10 * time.Second,
		RevealTimeout:  5 * time.Second,
		MinDelay:       1 * time.Second,
		MaxDelay:       2 * time.Second,
		MaxWorkers:     1,
		MaxRetries:     3,
		OutputDir:      "output",
		LogLevel:       "info",
		LogFormat:      "console",
		DBEnabled:      false,
		DBHost:         "localhost",
		DBPort:         5432,
		DBUser:         "postgres",
		DBPassword:     "postgres",
		DBName:         "paginebianche",
		DBSSLMode:      "disable",
	}
}

// Load starts from DefaultConfig and applies, in order: a .env file in the
// working directory, the YAML file at path (or scraper.yaml in . or ./configs
// when path is empty) and SCRAPER_* environment variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	def := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix("scraper")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("search_url", def.SearchURL)
	v.SetDefault("headless", def.Headless)
	v.SetDefault("max_expansions", def.MaxExpansions)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("action_timeout", def.ActionTimeout)
	v.SetDefault("card_timeout", def.CardTimeout)
	v.SetDefault("reveal_timeout", def.RevealTimeout)
	v.SetDefault("min_delay", def.MinDelay)
	v.SetDefault("max_delay", def.MaxDelay)
	v.SetDefault("max_workers", def.MaxWorkers)
	v.SetDefault("max_retries", def.MaxRetries)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("db_enabled", def.DBEnabled)
	v.SetDefault("db_host", def.DBHost)
	v.SetDefault("db_port", def.DBPort)
	v.SetDefault("db_user", def.DBUser)
	v.SetDefault("db_password", def.DBPassword)
	v.SetDefault("db_name", def.DBName)
	v.SetDefault("db_sslmode", def.DBSSLMode)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("scraper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	cfg := &Config{
		SearchURL:      v.GetString("search_url"),
		Headless:       v.GetBool("headless"),
		MaxExpansions:  v.GetInt("max_expansions"),
		RequestTimeout: v.GetDuration("request_timeout"),
		ActionTimeout:  v.GetDuration("action_timeout"),
		CardTimeout:    v.GetDuration("card_timeout"),
		RevealTimeout:  v.GetDuration("reveal_timeout"),
		MinDelay:       v.GetDuration("min_delay"),
		MaxDelay:       v.GetDuration("max_delay"),
		MaxWorkers:     v.GetInt("max_workers"),
		MaxRetries:     v.GetInt("max_retries"),
		OutputDir:      v.GetString("output_dir"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		DBEnabled:      v.GetBool("db_enabled"),
		DBHost:         v.GetString("db_host"),
		DBPort:         v.GetInt("db_port"),
		DBUser:         v.GetString("db_user"),
		DBPassword:     v.GetString("db_password"),
		DBName:         v.GetString("db_name"),
		DBSSLMode:      v.GetString("db_sslmode"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SearchURL == "" {
		return errors.New("search_url is required")
	}
	if c.MaxExpansions < 0 {
		return fmt.Errorf("max_expansions must be >= 0, got %d", c.MaxExpansions)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be >= 1, got %d", c.MaxWorkers)
	}
	if c.RevealTimeout <= 0 {
		return errors.New("reveal_timeout must be positive")
	}
	if c.MaxDelay < c.MinDelay {
		return fmt.Errorf("max_delay %v is below min_delay %v", c.MaxDelay, c.MinDelay)
	}
	return nil
}
