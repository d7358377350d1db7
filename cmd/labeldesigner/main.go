// Package main is the entry point for the ticket tag label designer service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/cache"
	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/database"
	"github.com/ticketing-console/labeldesigner/internal/eventapi"
	"github.com/ticketing-console/labeldesigner/internal/gateway"
	"github.com/ticketing-console/labeldesigner/internal/handler"
	"github.com/ticketing-console/labeldesigner/internal/session"
)

func main() {
	// Parse command line flags
	role := pflag.String("role", "", "Service role: gateway or handler (overrides SERVICE_ROLE env var)")
	port := pflag.StringP("port", "p", "", "Server port (overrides SERVER_PORT env var)")
	eventAPI := pflag.String("event-api", "", "Ticketing API base URL (overrides EVENT_API_URL env var)")
	pflag.Parse()

	// Override environment variables if flags are provided
	if *role != "" {
		os.Setenv("SERVICE_ROLE", *role)
	}
	if *port != "" {
		os.Setenv("SERVER_PORT", *port)
	}
	if *eventAPI != "" {
		os.Setenv("EVENT_API_URL", *eventAPI)
	}

	app := fx.New(
		fx.Provide(
			config.New,
			newLogger,
			newGinEngine,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

// newLogger creates a new zap logger based on the environment.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newGinEngine creates and configures a new Gin engine.
func newGinEngine(cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.MaxMultipartMemory = int64(cfg.MaxUploadBytes) * 4

	// CORS middleware
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, If-None-Match")
		c.Header("Access-Control-Expose-Headers", "ETag")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	return engine
}

// startServer starts the HTTP server based on the configured role.
func startServer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger, engine *gin.Engine) error {
	logger.Info("Starting service",
		zap.String("role", cfg.Role),
		zap.String("port", cfg.ServerPort),
	)

	// Setup API versioned routes
	apiV1 := engine.Group("/api/v1")

	var repo database.Repository
	var cacheClient cache.Cache
	var sessions *session.Store

	if cfg.IsHandler() {
		engine.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"role":     cfg.Role,
				"service":  "label-designer",
				"sessions": sessions.Len(),
			})
		})

		// Handler mode: connect to database and cache, register handlers
		var err error
		repo, err = database.NewPostgresRepository(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
			return err
		}

		cacheClient, err = cache.NewRedisCache(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
			return err
		}

		sessions = session.NewStore(cfg, logger)
		api := eventapi.NewHTTPClient(cfg, logger)

		h := handler.NewHandler(cfg, repo, cacheClient, api, sessions, logger)
		h.RegisterRoutes(apiV1)

		logger.Info("Handler routes registered",
			zap.String("event_api_url", cfg.EventAPIURL),
		)
	} else {
		// Gateway mode: setup proxy to handler
		gw := gateway.NewGateway(cfg, logger)
		engine.GET("/health", gw.HealthCheck)
		gw.RegisterRoutes(apiV1)

		logger.Info("Gateway routes registered",
			zap.String("handler_url", cfg.HandlerURL),
		)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: gzhttp.GzipHandler(engine),
	}

	stopSweep := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Server starting", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Server failed", zap.Error(err))
				}
			}()
			if sessions != nil {
				go sweepSessions(sessions, cfg.SessionTTL, stopSweep)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Server shutting down")
			close(stopSweep)

			if repo != nil {
				repo.Close()
			}
			if cacheClient != nil {
				_ = cacheClient.Close()
			}

			return server.Shutdown(ctx)
		},
	})

	return nil
}

// sweepSessions drops idle editor sessions until stop is closed.
func sweepSessions(sessions *session.Store, ttl time.Duration, stop <-chan struct{}) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sessions.Sweep()
		case <-stop:
			return
		}
	}
}
