package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talentscope/cs-evaluator/internal/classifier"
	"talentscope/cs-evaluator/internal/config"
	"talentscope/cs-evaluator/internal/handlers"
	"talentscope/cs-evaluator/internal/logger"
	"talentscope/cs-evaluator/internal/repositories"
	"talentscope/cs-evaluator/internal/scoring"
	"talentscope/cs-evaluator/internal/services"
)

func main() {
	cfg, envLoaded := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !envLoaded {
		log.Info("no .env file found, using environment and defaults")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	log.Info("config loaded", zap.String("env", cfg.Server.Env))

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()
	clf, err := classifier.New(ctx, classifier.Options{
		Backend:      cfg.Classifier.Backend,
		ModelPath:    cfg.Classifier.ModelPath,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		MaxRetries:   cfg.Classifier.MaxRetries,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize classifier", zap.Error(err))
	}
	log.Info("classifier ready", zap.String("classifier", clf.Name()))

	catalog := scoring.DefaultCatalog()
	scorer := scoring.NewScorer(catalog, scoring.Calibration{
		Divisor: cfg.Scoring.Divisor,
		Cap:     cfg.Scoring.Cap,
	})

	evaluatorService := services.NewEvaluatorService(
		scorer,
		clf,
		services.NewPDFParserService(log),
		services.EvaluatorConfig{
			Thresholds: services.Thresholds{
				Aderente:  cfg.Scoring.ThresholdAderente,
				Potencial: cfg.Scoring.ThresholdPotencial,
			},
			BonusMultiplier: cfg.Scoring.BonusMultiplier,
		},
		log,
	)

	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize, log)
	evaluateHandler := handlers.NewEvaluationHandler(evaluatorService, docRepo, storageService, cfg.Storage.MaxFileSize, log)
	keywordsHandler := handlers.NewKeywordsHandler(catalog)

	app := fiber.New(fiber.Config{
		AppName:      "TalentScope CS",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "healthy",
			"classifier": clf.Name(),
			"time":       time.Now(),
		})
	})
	api.Get("/keywords", keywordsHandler.HandleGetKeywords)
	api.Get("/keywords/:category", keywordsHandler.HandleGetCategory)
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "TalentScope CS - Customer Success internship fit analysis",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/keywords",
				"GET /api/v1/keywords/:category",
				"POST /api/v1/upload",
				"POST /api/v1/evaluate",
				"GET /metrics",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
