package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/krshsl/admitwise/backend/profile"
	"github.com/krshsl/admitwise/backend/repository"
	svc "github.com/krshsl/admitwise/backend/services"
	ws "github.com/krshsl/admitwise/backend/websocket"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Setup structured logging with JSON format
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := svc.LoadConfig()

	if config.Database.URL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if config.JWT.Secret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := openDatabase(config.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database")

	repo := repository.NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	documents := repository.NewDocumentRepository(db)

	ctx := context.Background()

	enricher := svc.NewEnricher(config.Catalog.Seed, time.Now().Year()+1)
	var source svc.CatalogSource = svc.NewFixtureCatalogSource(enricher)
	if config.Catalog.SourceURL != "" {
		source = svc.NewHTTPCatalogSource(config.Catalog.SourceURL, config.Catalog.Countries, enricher)
	}

	if config.Database.Seed {
		if err := svc.NewCatalogSeeder(repo, source).SeedCatalog(ctx); err != nil {
			slog.Error("Failed to seed catalog", "error", err)
		}
	}

	catalog := svc.NewCatalog(
		svc.NewDBCatalogSource(repo),
		openRedis(ctx, config.Redis.URL),
		config.Catalog.CacheTTL,
	)

	var extractor profile.Extractor = profile.NewRuleExtractor()
	if config.AI.GeminiAPIKey != "" {
		gemini, err := svc.NewGeminiExtractor(ctx, config.AI.GeminiAPIKey, config.AI.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini extractor, using rules only", "error", err)
		} else {
			extractor = svc.NewFallbackExtractor(gemini, extractor)
			slog.Info("Gemini extractor initialized", "model", config.AI.GeminiModel)
		}
	}

	hub := ws.NewHub()
	go hub.Run()

	documentService := svc.NewDocumentService(documents, repo, extractor, hub)
	profileService := svc.NewProfileService(repo, hub)
	recommendationService := svc.NewRecommendationService(repo, catalog, hub, config.Catalog.MaxScan)

	server := svc.NewServer(config, db, svc.NewAuthService(config.JWT.Secret), hub,
		svc.NewProfileEndpoints(profileService),
		svc.NewDocumentEndpoints(documentService),
		svc.NewRecommendationEndpoints(recommendationService),
	)
	server.Start()
}

func openDatabase(cfg svc.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

// openRedis returns nil when Redis is not configured or unreachable; the catalog then
// stays in-process only
func openRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("Invalid REDIS_URL, catalog snapshot disabled", "error", err)
		return nil
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, catalog snapshot disabled", "error", err)
		rdb.Close()
		return nil
	}

	slog.Info("Connected to Redis", "addr", opts.Addr)
	return rdb
}
