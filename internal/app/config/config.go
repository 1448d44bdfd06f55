// Package config loads the service configuration from .env, an optional YAML file and
// DRIFTER_-prefixed environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Market sources.
const (
	SourceHyperliquid = "hyperliquid"
	SourceBinance     = "binance"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Log            LogConfig            `mapstructure:"log"`
	Market         MarketConfig         `mapstructure:"market"`
	Binance        BinanceConfig        `mapstructure:"binance"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Cache          CacheConfig          `mapstructure:"cache"`
	DB             DBConfig             `mapstructure:"db"`
	Ingest         IngestConfig         `mapstructure:"ingest"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	GinMode      string        `mapstructure:"gin_mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// DisplayZone is the IANA zone used to render timestamps in responses.
	DisplayZone string `mapstructure:"display_zone"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MarketConfig struct {
	Source  string        `mapstructure:"source"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit requests per RateInterval; 0 disables throttling.
	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
}

type BinanceConfig struct {
	APIKey    string `mapstructure:"api_key"`
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
	Quote     string `mapstructure:"quote"`
}

type RecommendationConfig struct {
	MaxLookBack  int           `mapstructure:"max_look_back"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// Archive writes every fetched candle to the database when one is configured.
	Archive bool `mapstructure:"archive"`
}

type AuthConfig struct {
	// APIKeyHash is a SHA-256 hex digest or a bcrypt hash. Empty disables API keys.
	APIKeyHash string        `mapstructure:"api_key_hash"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	JWTIssuer  string        `mapstructure:"jwt_issuer"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	// Disabled turns off authentication for local use.
	Disabled bool `mapstructure:"disabled"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	MarketNamespace string        `mapstructure:"market_namespace"`
	ArchiveTTL      time.Duration `mapstructure:"archive_ttl"`
}

type DBConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	SSLMode        string        `mapstructure:"sslmode"`
	Migrate        bool          `mapstructure:"migrate"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// Enabled reports whether a database is configured.
func (c DBConfig) Enabled() bool {
	return c.Driver != ""
}

type IngestConfig struct {
	Coins     []string      `mapstructure:"coins"`
	Intervals []string      `mapstructure:"intervals"`
	LookBack  time.Duration `mapstructure:"look_back"`
	// Schedule is a cron expression; empty runs once and exits.
	Schedule string `mapstructure:"schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.display_zone", "Asia/Kolkata")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("market.source", SourceHyperliquid)
	v.SetDefault("market.base_url", "")
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("market.rate_limit", 20)
	v.SetDefault("market.rate_interval", "1s")

	v.SetDefault("binance.api_key", "")
	v.SetDefault("binance.secret_key", "")
	v.SetDefault("binance.base_url", "")
	v.SetDefault("binance.quote", "USDT")

	v.SetDefault("recommendation.max_look_back", 5000)
	v.SetDefault("recommendation.fetch_timeout", "10s")
	v.SetDefault("recommendation.archive", false)

	v.SetDefault("auth.api_key_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "drifter")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("auth.disabled", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.market_namespace", "market")
	v.SetDefault("cache.archive_ttl", "1m")

	v.SetDefault("db.driver", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.migrate", false)
	v.SetDefault("db.connect_timeout", "60s")

	v.SetDefault("ingest.coins", []string{"BTC", "ETH"})
	v.SetDefault("ingest.intervals", []string{"1m"})
	v.SetDefault("ingest.look_back", "3h")
	v.SetDefault("ingest.schedule", "")
}

// Load reads the configuration. path names a YAML file; when empty, ./config.yaml is
// used if it exists. A missing .env file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DRIFTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Market.Source {
	case SourceHyperliquid, SourceBinance:
	default:
		return fmt.Errorf("market.source: unsupported %q", c.Market.Source)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("server.display_zone: %w", err)
	}
	if c.Recommendation.MaxLookBack < 1 {
		return errors.New("recommendation.max_look_back must be positive")
	}
	return nil
}

// ValidateAuth checks that a server has some way to authenticate callers.
func (c Config) ValidateAuth() error {
	if !c.Auth.Disabled && c.Auth.APIKeyHash == "" && c.Auth.JWTSecret == "" {
		return errors.New("auth: set auth.api_key_hash or auth.jwt_secret, or auth.disabled")
	}
	return nil
}

// Location returns the display zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Server.DisplayZone)
}
