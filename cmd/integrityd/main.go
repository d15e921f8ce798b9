package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AnweshaPanigrahi/File-integrity/internal/api"
	"github.com/AnweshaPanigrahi/File-integrity/internal/monitor"
)

func main() {
	// Command-line flags
	urlFlag := flag.String("url", "", "Server bind address (e.g., :8080 or 0.0.0.0:8080)")
	flag.Parse()

	// Configuration
	port := getEnv("INTEGRITY_PORT", "8080")
	logLevel := getEnv("INTEGRITY_LOG_LEVEL", "info")

	// Determine bind address: flag takes precedence, then env, then default
	bindAddr := ":" + port
	if *urlFlag != "" {
		bindAddr = *urlFlag
	}

	logger := newLogger(logLevel)
	defer logger.Sync()

	changeLogSize := monitor.DefaultChangeLogSize
	if v := os.Getenv("INTEGRITY_CHANGELOG_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			changeLogSize = n
		}
	}

	// Initialize directory monitoring
	registry := monitor.NewRegistry(logger)
	changes := monitor.NewChangeLog(changeLogSize)

	watcher, err := monitor.NewWatcher(registry, changes, logger)
	if err != nil {
		logger.Fatal("failed to create filesystem watcher", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go watcher.Run(ctx)

	// Initialize handlers
	handler := api.NewHandler(registry, watcher, changes, logger)

	// Set up Gin router
	r := gin.Default()
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", handler.HealthCheck)

	// API routes
	apiGroup := r.Group("/api")
	{
		// API documentation
		apiGroup.GET("", handler.APIInfo)

		// Hashing
		apiGroup.POST("/hash", handler.HashUpload)
		apiGroup.POST("/verify", handler.VerifyUpload)

		// Directory monitoring
		apiGroup.POST("/directories", handler.RegisterDirectory)
		apiGroup.GET("/directories/:name/changes", handler.DirectoryChanges)
		apiGroup.GET("/directories/:name/files", handler.ListDirectoryFiles)
		apiGroup.DELETE("/directories/:name", handler.UnregisterDirectory)
	}

	// Start server
	logger.Info("integrity server starting", zap.String("addr", bindAddr))
	if err := r.Run(bindAddr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	if level == "debug" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
