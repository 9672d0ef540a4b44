package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"testcase-tracker/internal/config"
	"testcase-tracker/internal/handler"
	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"
	"testcase-tracker/internal/service"
	"testcase-tracker/internal/storage"
	"testcase-tracker/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.toml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Auto migrate models
	if err := db.AutoMigrate(
		&models.XPSTestCase{},
		&models.EMemberTestCase{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize screenshot storage
	store, err := storage.NewScreenshotStore(cfg.Storage.ScreenshotsDir)
	if err != nil {
		log.Fatalf("Failed to initialize screenshot storage: %v", err)
	}

	// Initialize repositories
	xpsRepo := repository.NewXPSTestCaseRepository(db)
	ememberRepo := repository.NewEMemberTestCaseRepository(db)

	// Change notification hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	testCaseService := service.NewTestCaseService(xpsRepo, ememberRepo, hub)
	statsService := service.NewStatsService(xpsRepo, ememberRepo)
	exportService := service.NewExportService(xpsRepo, ememberRepo)
	importService := service.NewImportService(xpsRepo, ememberRepo, hub)
	screenshotService := service.NewScreenshotService(xpsRepo, ememberRepo, store, hub)

	// Initialize handlers
	testCaseHandler := handler.NewTestCaseHandler(testCaseService, statsService)
	exportHandler := handler.NewExportHandler(exportService)
	importHandler := handler.NewImportHandler(importService)
	screenshotHandler := handler.NewScreenshotHandler(screenshotService)
	wsHandler := handler.NewWebSocketHandler(hub)

	// Setup Gin router
	r := gin.Default()

	// Enable CORS
	r.Use(corsMiddleware())

	// Register routes
	testCaseHandler.RegisterRoutes(r)
	exportHandler.RegisterRoutes(r)
	importHandler.RegisterRoutes(r)
	screenshotHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	// Serve stored screenshots
	r.Static("/screenshots", store.Root())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "testcase-tracker",
		})
	})

	// Start server
	addr := cfg.Server.GetAddr()
	log.Printf("Starting test case tracker on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Type {
	case "sqlite":
		// Ensure data directory exists
		dbPath := cfg.Database.DSN
		dbDir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
