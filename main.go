package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/config"
	"github.com/farmbook-io/farmbook-engine/pkg/database"
	"github.com/farmbook-io/farmbook-engine/pkg/handlers"
	"github.com/farmbook-io/farmbook-engine/pkg/logging"
	"github.com/farmbook-io/farmbook-engine/pkg/middleware"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
	"github.com/farmbook-io/farmbook-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Bool("redis_enabled", cfg.Redis.Host != ""))

	ctx := context.Background()

	// Run migrations before opening the pool.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Repositories
	answerRepo := repositories.NewAnswerRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	farmerRepo := repositories.NewFarmerRepository(db)
	investmentTypeRepo := repositories.NewInvestmentTypeRepository(db)

	// Services
	resolver := services.NewTagResolver(answerRepo, redisClient, logger)
	classification := services.NewClassificationService(resolver, answerRepo, logger)
	aggregation := services.NewAggregationService(answerRepo, logger)
	reports := services.NewReportService(aggregation, answerRepo, investmentTypeRepo, logger)
	outlet := services.NewOutletService(farmerRepo, classification, reports, logger)
	submissions := services.NewSubmissionService(db, answerRepo, questionRepo, resolver, logger)

	// Handlers
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAnswersHandler(submissions, logger).RegisterRoutes(mux)
	handlers.NewReportsHandler(reports, classification, cfg, logger).RegisterRoutes(mux)
	handlers.NewOutletHandler(outlet, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting farmbook-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
