package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/01moynul/taptosell-admin/internal/ai"
	"github.com/01moynul/taptosell-admin/internal/auth"
	"github.com/01moynul/taptosell-admin/internal/config"
	"github.com/01moynul/taptosell-admin/internal/database"
	"github.com/01moynul/taptosell-admin/internal/handlers"
	"github.com/01moynul/taptosell-admin/internal/imagestate"
	"github.com/01moynul/taptosell-admin/internal/repository"
	"github.com/01moynul/taptosell-admin/internal/routes"
	"github.com/01moynul/taptosell-admin/internal/services"
	"github.com/01moynul/taptosell-admin/internal/storage"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg)
	if envErr != nil {
		logger.Warn("could not load .env file, relying on system environment variables")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set")
	}
	ctx := context.Background()

	// 1. --- Database ---
	db, err := database.OpenDB(cfg.DBDSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// 2. --- Image state store ---
	imageStore, closeStore := newImageStore(ctx, cfg, logger)
	defer closeStore()

	// 3. --- Upload storage ---
	st, err := storage.FromConfig(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to configure upload storage")
	}
	logger.WithField("driver", st.Driver).Info("upload storage ready")
	uploader := services.NewImageUploader(st.Storage, storage.NewOptimizer(cfg.MaxImageDimension, logger), cfg.MaxUploadBytes, logger)

	// 4. --- AI Service (optional) ---
	var suggester handlers.KeywordSuggester
	if cfg.GeminiAPIKey != "" {
		gen, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.WithError(err).Fatal("failed to initialize AI service")
		}
		defer gen.Close()
		suggester = ai.NewAIService(gen, logger)
	} else {
		logger.Info("GEMINI_API_KEY not set, keyword suggestions disabled")
	}

	// --- Application Setup ---
	products := repository.NewProductRepository(db)
	app := &handlers.Handlers{
		Catalog:    repository.NewCatalogRepository(db),
		Products:   products,
		Forms:      handlers.NewFormRegistry(logger),
		ImageStore: imageStore,
		Saver:      services.NewProductSaveService(products, logger),
		Uploader:   uploader,
		Suggester:  suggester,
		Log:        logger,
	}

	// --- Background Workers ---
	// Release the image state of forms nobody touched for FORM_SESSION_TTL.
	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go func() {
		ticker := time.NewTicker(cfg.ReapInterval)
		defer ticker.Stop()

		logger.WithField("ttl", cfg.FormSessionTTL.String()).Info("form session reaper started")
		for {
			select {
			case <-reapCtx.Done():
				return
			case <-ticker.C:
				app.Forms.Reap(reapCtx, cfg.FormSessionTTL)
			}
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(cfg, app, auth.NewValidator(cfg.JWTSecret))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		logger.WithField("port", cfg.Port).Info("starting TapToSell admin API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
	stopReaper()
	app.Forms.CloseAll(shutdownCtx)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfg.LogLevel != "" {
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(level)
		}
	}
	return logger
}

func newImageStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (imagestate.Store, func()) {
	if cfg.ImageStoreDriver != "redis" {
		logger.Info("using in-memory image state store")
		return imagestate.NewMemoryStore(), func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Fatal("invalid REDIS_URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	logger.Info("using redis image state store")
	// Keys outlive idle sessions slightly so the reaper always finds them.
	return imagestate.NewRedisStore(client, cfg.FormSessionTTL+cfg.ReapInterval), func() { client.Close() }
}
