package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

type JWTConfig struct {
	Secret string
}

type WebSocketConfig struct {
	AllowedOrigins string
}

type RedisConfig struct {
	URL string
}

// CatalogConfig controls where the university catalog comes from and how long it is shared
type CatalogConfig struct {
	CacheTTL  time.Duration
	MaxScan   int
	Seed      uint64
	SourceURL string
	Countries []string
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("websocket.allowed_origins", "")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", DefaultGeminiModel)
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "true")
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("catalog.cache_ttl", "6h")
	viper.SetDefault("catalog.max_scan", "500")
	viper.SetDefault("catalog.seed", "20240601")
	viper.SetDefault("catalog.source_url", "")
	viper.SetDefault("catalog.countries", "United States,United Kingdom,Canada,Australia,Germany,Netherlands,Ireland,Singapore")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("websocket.allowed_origins", "WEBSOCKET_ALLOWED_ORIGINS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("redis.url", "REDIS_URL")
	viper.BindEnv("catalog.cache_ttl", "CATALOG_CACHE_TTL")
	viper.BindEnv("catalog.max_scan", "CATALOG_MAX_SCAN")
	viper.BindEnv("catalog.seed", "CATALOG_SEED")
	viper.BindEnv("catalog.source_url", "CATALOG_SOURCE_URL")
	viper.BindEnv("catalog.countries", "CATALOG_COUNTRIES")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			LogLevel:     viper.GetString("database.log_level"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		AI: AIConfig{
			GeminiAPIKey: viper.GetString("gemini.api_key"),
			GeminiModel:  viper.GetString("gemini.model"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: viper.GetString("websocket.allowed_origins"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("redis.url"),
		},
		Catalog: CatalogConfig{
			CacheTTL:  viper.GetDuration("catalog.cache_ttl"),
			MaxScan:   viper.GetInt("catalog.max_scan"),
			Seed:      viper.GetUint64("catalog.seed"),
			SourceURL: viper.GetString("catalog.source_url"),
			Countries: splitList(viper.GetString("catalog.countries")),
		},
	}
}

// splitList parses a comma-separated setting, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
