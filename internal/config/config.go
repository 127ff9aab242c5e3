package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Discord  DiscordConfig  `yaml:"discord"`
	Store    StoreConfig    `yaml:"store"`
	Currency CurrencyConfig `yaml:"currency"`
	Sync     SyncConfig     `yaml:"sync"`
	Display  DisplayConfig  `yaml:"display"`
	Setup    SetupConfig    `yaml:"setup"`
	Bot      BotConfig      `yaml:"bot"`
	LogLevel string         `yaml:"log_level"`
}

// RabbitMQConfig configures catalog event publishing. An empty URL disables it.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type DiscordConfig struct {
	Token string `yaml:"token"`
}

type StoreConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type CurrencyConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"`
	BaseCurrency      string        `yaml:"base_currency"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

type SyncConfig struct {
	Interval       time.Duration `yaml:"interval"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	// ContextIDs restricts syncing to these contexts. Empty means all
	// configured contexts.
	ContextIDs []string `yaml:"context_ids"`
}

type DisplayConfig struct {
	MaxPageLength int    `yaml:"max_page_length"`
	Footer        string `yaml:"footer"`
	TimeLayout    string `yaml:"time_layout"`
}

type SetupConfig struct {
	StepTimeout time.Duration `yaml:"step_timeout"`
}

type BotConfig struct {
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.URL != "" {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "storefront_bot"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "catalog.updated"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "catalog_updates"
		}
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = 30 * time.Second
	}
	if c.Currency.BaseURL == "" {
		c.Currency.BaseURL = "https://freecurrencyapi.com/api/v1/rates"
	}
	if c.Currency.BaseCurrency == "" {
		c.Currency.BaseCurrency = "CAD"
	}
	if c.Currency.Timeout == 0 {
		c.Currency.Timeout = 10 * time.Second
	}
	if c.Currency.RequestsPerSecond == 0 {
		c.Currency.RequestsPerSecond = 10
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 2 * time.Minute
	}
	if c.Sync.Timeout == 0 {
		c.Sync.Timeout = c.Sync.Interval
	}
	if c.Sync.MaxConcurrency == 0 {
		c.Sync.MaxConcurrency = 4
	}
	if c.Display.MaxPageLength == 0 {
		c.Display.MaxPageLength = 2000
	}
	if c.Display.TimeLayout == "" {
		c.Display.TimeLayout = "Jan 2, 2006 3:04:05 PM MST"
	}
	if c.Setup.StepTimeout == 0 {
		c.Setup.StepTimeout = 60 * time.Second
	}
	if c.Bot.CommandTimeout == 0 {
		c.Bot.CommandTimeout = 2 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token is required")
	}
	if c.Sync.Interval < 0 || c.Sync.Timeout < 0 {
		return fmt.Errorf("sync interval and timeout must be positive")
	}
	if c.Sync.MaxConcurrency < 1 {
		return fmt.Errorf("sync max_concurrency must be at least 1")
	}
	if c.Display.MaxPageLength < 1 {
		return fmt.Errorf("display max_page_length must be at least 1")
	}
	if c.Currency.RequestsPerSecond < 0 {
		return fmt.Errorf("currency requests_per_second must not be negative")
	}
	return nil
}
