package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geodex/geodex/internal/config"
	"github.com/geodex/geodex/internal/geocode"
	"github.com/geodex/geodex/internal/users"
)

// AppState holds all application services
type AppState struct {
	Logger      *zap.Logger
	Config      *config.Config
	UserService users.UserService

	// backend handles kept for shutdown
	mongoClient *mongo.Client
	bunDB       *bun.DB
}

func main() {
	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()

	// Initialize application state
	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	// Create HTTP server
	router := setupRouter(as)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Setup graceful shutdown
	done := setupSignalHandler(as, server, logger)

	// Start server
	logger.Info("Starting geodex server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state. External client
// handles are constructed once here and passed into the service by reference
// so the core stays substitutable with test doubles.
func newAppState(logger *zap.Logger) (*AppState, error) {
	as := &AppState{
		Logger: logger,
		Config: config.Get(),
	}

	store, err := newUserStore(as, logger)
	if err != nil {
		return nil, err
	}

	geocodeConfig := config.Geocode()
	if geocodeConfig.APIKey == "" {
		logger.Warn("No geocode API key configured - set GEODEX_OPENWEATHER_API_KEY")
	}
	geocoder := geocode.NewOpenWeatherClient(
		geocodeConfig.BaseURL,
		geocodeConfig.APIKey,
		time.Duration(geocodeConfig.TimeoutSeconds)*time.Second,
		logger,
	)

	as.UserService = users.NewUserService(store, geocoder, logger)
	return as, nil
}

// newUserStore builds the store backend selected in the configuration.
func newUserStore(as *AppState, logger *zap.Logger) (users.UserStore, error) {
	backend := config.Store().Backend

	switch backend {
	case "mongo":
		mongoConfig := config.Mongo()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoConfig.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongodb: %w", err)
		}

		logger.Info("Connected to MongoDB",
			zap.String("database", mongoConfig.Database),
			zap.String("collection", mongoConfig.Collection))

		as.mongoClient = client
		return users.NewMongoStore(client, mongoConfig.Database, mongoConfig.Collection), nil

	case "postgres":
		pgConfig := config.Postgres()

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgConfig.DSN())))
		db := bun.NewDB(sqldb, pgdialect.New())

		store := users.NewPostgresStore(db)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		logger.Info("Connected to PostgreSQL",
			zap.String("host", pgConfig.Host),
			zap.String("database", pgConfig.Database))

		as.bunDB = db
		return store, nil

	case "memory":
		logger.Warn("Using in-memory store - data will not survive a restart")
		return users.NewInMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var zapConfig zap.Config
	if logConfig.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Allow only the configured browser client origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.Http().CorsOrigin}
	router.Use(cors.New(corsConfig))

	// Add logging middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	userHandlers := users.NewUserHandlers(as.UserService, as.Logger)
	userHandlers.RegisterRoutes(router)

	return router
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Shutdown server
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		// Close store backends
		if as.mongoClient != nil {
			if err := as.mongoClient.Disconnect(ctx); err != nil {
				logger.Error("Error disconnecting from mongodb", zap.Error(err))
			}
		}
		if as.bunDB != nil {
			if err := as.bunDB.Close(); err != nil {
				logger.Error("Error closing database", zap.Error(err))
			}
		}

		done <- struct{}{}
	}()

	return done
}
