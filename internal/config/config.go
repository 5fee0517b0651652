package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Identity  IdentityConfig  `mapstructure:"identity"`
	Content   ContentConfig   `mapstructure:"content"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"`
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

// IdentityConfig 外部身份服务。配置了 jwt_secret 时本地校验令牌，
// 否则回源调用 user_endpoint 做在线校验。
type IdentityConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	UserEndpoint string        `mapstructure:"user_endpoint"`
	APIKey       string        `mapstructure:"api_key"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl_seconds"`
	Timeout      time.Duration `mapstructure:"timeout_seconds"`
}

// ContentConfig 内容文件存储：local 目录或 minio 桶
type ContentConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
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

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PODLAB")
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

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Identity
	viper.BindEnv("identity.base_url", "IDENTITY_BASE_URL")
	viper.BindEnv("identity.user_endpoint", "IDENTITY_USER_ENDPOINT")
	viper.BindEnv("identity.api_key", "IDENTITY_API_KEY")
	viper.BindEnv("identity.jwt_secret", "IDENTITY_JWT_SECRET")

	// Content store
	viper.BindEnv("content.type", "CONTENT_STORE_TYPE")
	viper.BindEnv("content.local_path", "CONTENT_LOCAL_PATH")
	viper.BindEnv("content.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("content.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("content.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("content.minio_bucket", "MINIO_BUCKET")

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

	cfg.Identity.CacheTTL = cfg.Identity.CacheTTL * time.Second
	cfg.Identity.Timeout = cfg.Identity.Timeout * time.Second
	if cfg.Identity.CacheTTL <= 0 {
		cfg.Identity.CacheTTL = 60 * time.Second
	}
	if cfg.Identity.Timeout <= 0 {
		cfg.Identity.Timeout = 5 * time.Second
	}

	// 生产环境必须配置身份服务
	if cfg.Server.Mode == "release" && cfg.Identity.JWTSecret == "" && cfg.Identity.BaseURL == "" {
		return nil, fmt.Errorf("identity provider is not configured: set identity.jwt_secret or identity.base_url in release mode")
	}

	if cfg.Content.Type == "local" {
		if _, err := os.Stat(cfg.Content.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Content.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
