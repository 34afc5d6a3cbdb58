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
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Log       LogConfig       `mapstructure:"log"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Resources ResourceConfig  `mapstructure:"resources"`
	Goals     GoalsConfig     `mapstructure:"goals"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Filename string `mapstructure:"filename"`
}

type DatabaseConfig struct {
	// mysql | sqlite
	Driver    string `mapstructure:"driver"`
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	// sqlite 文件路径
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
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

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

type PlannerConfig struct {
	// 为空时使用内置知识库
	KnowledgeBasePath string `mapstructure:"knowledge_base_path"`
	ResourcesPerWeek  int    `mapstructure:"resources_per_week"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
}

type ResourceConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	APIKey           string `mapstructure:"api_key"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	MaxAttempts      int    `mapstructure:"max_attempts"`
	InitialBackoffMS int    `mapstructure:"initial_backoff_ms"`
	// memory | redis
	Cache string `mapstructure:"cache"`
}

type GoalsConfig struct {
	DailyWatchLimit     int  `mapstructure:"daily_watch_limit"`
	XPPerGoal           int  `mapstructure:"xp_per_goal"`
	AutoGenerate        bool `mapstructure:"auto_generate"`
	AutoGenerateMinutes int  `mapstructure:"auto_generate_minutes"`
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.filename", "logs/app.log")
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("jwt.expire_hours", 72)
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "./uploads")
	viper.SetDefault("planner.resources_per_week", 3)
	viper.SetDefault("planner.timeout_seconds", 60)
	viper.SetDefault("resources.max_attempts", 3)
	viper.SetDefault("resources.initial_backoff_ms", 1000)
	viper.SetDefault("resources.timeout_seconds", 10)
	viper.SetDefault("resources.cache", "memory")
	viper.SetDefault("goals.daily_watch_limit", 2)
	viper.SetDefault("goals.xp_per_goal", 10)
	viper.SetDefault("goals.auto_generate_minutes", 60)
	viper.SetDefault("rate_limit.max_requests", 100)
	viper.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("SKILLPATH")
	viper.AutomaticEnv()
	setDefaults()

	// Database
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Resources
	viper.BindEnv("resources.base_url", "YOUTUBE_BASE_URL")
	viper.BindEnv("resources.api_key", "YOUTUBE_API_KEY")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

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

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Resources.Cache == "redis" && !cfg.Redis.Enabled {
		return nil, fmt.Errorf("resources.cache is redis but redis is disabled")
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// InitialBackoff 毫秒配置转为 Duration
func (c ResourceConfig) InitialBackoff() time.Duration {
	return time.Duration(c.InitialBackoffMS) * time.Millisecond
}
