package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionTTL is how long a session cookie stays valid.
const DefaultSessionTTL = 10 * 24 * time.Hour

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Events    EventsConfig    `mapstructure:"events"`
	Inference InferenceConfig `mapstructure:"inference"`
	Log       LogConfig       `mapstructure:"log"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	Environment  string        `mapstructure:"environment"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For is believed. Empty means the peer address is the client.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// IsDevelopment reports whether cookies may be sent without the Secure flag.
func (s ServerConfig) IsDevelopment() bool {
	env := strings.ToLower(strings.TrimSpace(s.Environment))
	return env == "" || env == "development" || env == "dev" || env == "local"
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" or "memory"
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// Enabled reports whether profile image storage is configured.
func (s S3Config) Enabled() bool {
	return s.BucketName != ""
}

// JWTConfig defines session token configuration.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	CookieName string        `mapstructure:"cookie_name"`
}

// RedisConfig configures the rate limiter backend. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	LoginLimit     int           `mapstructure:"login_limit"`
	LoginWindow    time.Duration `mapstructure:"login_window"`
	GenerateLimit  int           `mapstructure:"generate_limit"`
	GenerateWindow time.Duration `mapstructure:"generate_window"`
}

// EventsConfig configures the AMQP publisher. An empty URL disables publishing.
type EventsConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// InferenceConfig configures the OpenAI-compatible text generation endpoint.
type InferenceConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// AdminConfig lists accounts promoted to admin at startup.
type AdminConfig struct {
	Emails []string `mapstructure:"emails"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in path is loaded first when present; real environment
// variables take precedence over it.
func LoadConfig(path string) (Config, error) {
	var config Config

	_ = godotenv.Load(strings.TrimSuffix(path, "/") + "/.env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}

	if config.JWT.Secret == "" {
		return config, errors.New("jwt.secret must be set")
	}
	if config.JWT.Expiration <= 0 {
		config.JWT.Expiration = DefaultSessionTTL
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":4000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", "10s")
	// generation requests wait on the upstream model
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "codeflex")

	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")

	// AutomaticEnv only resolves keys viper already knows about
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "240h")
	v.SetDefault("jwt.cookie_name", "jwt")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.login_limit", 10)
	v.SetDefault("rate_limit.login_window", "1m")
	v.SetDefault("rate_limit.generate_limit", 5)
	v.SetDefault("rate_limit.generate_window", "1h")

	v.SetDefault("events.url", "")
	v.SetDefault("events.exchange", "codeflex.events")

	v.SetDefault("inference.base_url", "https://api.openai.com/v1")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.model", "gpt-4o-mini")
	v.SetDefault("inference.max_tokens", 2000)
	v.SetDefault("inference.temperature", 0.7)
	v.SetDefault("inference.timeout", "60s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("admin.emails", []string{})

	for _, key := range []string{
		"s3.endpoint", "s3.region", "s3.access_key_id", "s3.secret_access_key", "s3.bucket_name",
	} {
		v.SetDefault(key, "")
	}
}
