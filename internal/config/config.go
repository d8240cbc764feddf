package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Mongo        MongoConfig        `yaml:"mongo"`
	Redis        RedisConfig        `yaml:"redis"`
	RabbitMQ     RabbitMQConfig     `yaml:"rabbitmq"`
	Ticketmaster TicketmasterConfig `yaml:"ticketmaster"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Auth         AuthConfig         `yaml:"auth"`
	Feed         FeedConfig         `yaml:"feed"`
	LogLevel     string             `yaml:"log_level"`
	LogFormat    string             `yaml:"log_format"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// RateLimit is the number of requests a client IP may send per minute.
	RateLimit int `yaml:"rate_limit"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type MongoConfig struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RedisConfig is optional; without an address the scheduler lock is
// process-local.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// RabbitMQConfig is optional; without a URL event changes are not published.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type TicketmasterConfig struct {
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	PageSize      int           `yaml:"page_size"`
	MaxPages      int           `yaml:"max_pages"`
	PageDelay     time.Duration `yaml:"page_delay"`
	DayDelay      time.Duration `yaml:"day_delay"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Retry         RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type SchedulerConfig struct {
	Enabled    *bool         `yaml:"enabled"`
	DailyAt    string        `yaml:"daily_at"`
	DaysAhead  int           `yaml:"days_ahead"`
	WindowDays int           `yaml:"window_days"`
	Timezone   string        `yaml:"timezone"`
	LogPath    string        `yaml:"log_path"`
	LockTTL    time.Duration `yaml:"lock_ttl"`
	RunTimeout time.Duration `yaml:"run_timeout"`
}

func (s SchedulerConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTIssuer     string        `yaml:"jwt_issuer"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

type FeedConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 300
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "sortir"
	}
	if c.Mongo.Timeout == 0 {
		c.Mongo.Timeout = 10 * time.Second
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "sortir"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "events"
	}
	if c.Ticketmaster.BaseURL == "" {
		c.Ticketmaster.BaseURL = "https://app.ticketmaster.com/discovery/v2"
	}
	if c.Ticketmaster.PageSize == 0 {
		c.Ticketmaster.PageSize = 200
	}
	if c.Ticketmaster.MaxPages == 0 {
		c.Ticketmaster.MaxPages = 20
	}
	if c.Ticketmaster.PageDelay == 0 {
		c.Ticketmaster.PageDelay = 250 * time.Millisecond
	}
	if c.Ticketmaster.DayDelay == 0 {
		c.Ticketmaster.DayDelay = 500 * time.Millisecond
	}
	if c.Ticketmaster.Timeout == 0 {
		c.Ticketmaster.Timeout = 30 * time.Second
	}
	if c.Ticketmaster.RatePerSecond == 0 {
		c.Ticketmaster.RatePerSecond = 4
	}
	if c.Ticketmaster.Retry.MaxAttempts == 0 {
		c.Ticketmaster.Retry.MaxAttempts = 3
	}
	if c.Ticketmaster.Retry.InitialBackoff == 0 {
		c.Ticketmaster.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Ticketmaster.Retry.MaxBackoff == 0 {
		c.Ticketmaster.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Scheduler.DailyAt == "" {
		c.Scheduler.DailyAt = "03:00"
	}
	if c.Scheduler.DaysAhead == 0 {
		c.Scheduler.DaysAhead = 60
	}
	if c.Scheduler.WindowDays == 0 {
		c.Scheduler.WindowDays = 1
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "Europe/Paris"
	}
	if c.Scheduler.LogPath == "" {
		c.Scheduler.LogPath = "logs/scheduler.log"
	}
	if c.Scheduler.LockTTL == 0 {
		c.Scheduler.LockTTL = 2 * time.Hour
	}
	if c.Scheduler.RunTimeout == 0 {
		c.Scheduler.RunTimeout = 90 * time.Minute
	}
	if c.Auth.JWTIssuer == "" {
		c.Auth.JWTIssuer = "sortir"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Auth.PurgeInterval == 0 {
		c.Auth.PurgeInterval = time.Hour
	}
	if c.Feed.DefaultLimit == 0 {
		c.Feed.DefaultLimit = 20
	}
	if c.Feed.MaxLimit == 0 {
		c.Feed.MaxLimit = 100
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
}

// Validate rejects configurations the process cannot start with. It
// expects defaults to be applied.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if _, err := time.Parse("15:04", c.Scheduler.DailyAt); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.daily_at: invalid time %q, want HH:MM", c.Scheduler.DailyAt))
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.timezone: %w", err))
	}
	if c.Scheduler.WindowDays < 1 || c.Scheduler.WindowDays > 365 {
		errs = append(errs, errors.New("scheduler.window_days must be between 1 and 365"))
	}
	if c.Feed.DefaultLimit > c.Feed.MaxLimit {
		errs = append(errs, errors.New("feed.default_limit exceeds feed.max_limit"))
	}

	return errors.Join(errs...)
}
