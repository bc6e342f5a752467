package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Bot       BotConfig       `mapstructure:"bot"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type BotConfig struct {
	Token       string        `mapstructure:"token"`
	AdminPhones []string      `mapstructure:"admin_phones"`
	PollTimeout time.Duration `mapstructure:"poll_timeout_seconds"`
}

type GeocoderConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout_seconds"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AdminKey   string        `mapstructure:"admin_key"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// IsAdminPhone reports whether the phone is in the configured admin allow-list.
// Admin status is derived from this list at identity resolution time; the role
// column in the users table is advisory only.
func (c *Config) IsAdminPhone(phone string) bool {
	for _, p := range c.Bot.AdminPhones {
		if strings.TrimSpace(p) == phone {
			return true
		}
	}
	return false
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("MEETUP")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Bot
	viper.BindEnv("bot.token", "BOT_TOKEN")
	viper.BindEnv("bot.admin_phones", "ADMIN_PHONES")

	// Geocoder
	viper.BindEnv("geocoder.base_url", "GEOCODER_BASE_URL")
	viper.BindEnv("geocoder.user_agent", "GEOCODER_USER_AGENT")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.admin_key", "ADMIN_API_KEY")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is not set (config bot.token or BOT_TOKEN)")
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Geocoder.Timeout = cfg.Geocoder.Timeout * time.Second
	if cfg.Geocoder.Timeout == 0 {
		cfg.Geocoder.Timeout = 5 * time.Second
	}
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	cfg.Bot.PollTimeout = cfg.Bot.PollTimeout * time.Second
	if cfg.Bot.PollTimeout == 0 {
		cfg.Bot.PollTimeout = 10 * time.Second
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
