package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"testcase-tracker/internal/config"
	"testcase-tracker/internal/models"
	"testcase-tracker/internal/repository"
	"testcase-tracker/internal/service"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to config file")
	filePath := flag.String("file", "", "Path to xlsx file to import")
	model := flag.String("model", service.ImportModelXPS, "Target model: xpsTestCase or eMemberTestCase")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("Usage: import -file <cases.xlsx> [-model xpsTestCase|eMemberTestCase] [-config config.toml]")
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.XPSTestCase{},
		&models.EMemberTestCase{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize repositories and importer
	xpsRepo := repository.NewXPSTestCaseRepository(db)
	ememberRepo := repository.NewEMemberTestCaseRepository(db)
	importer := service.NewImportService(xpsRepo, ememberRepo, nil)

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	rows, err := importer.Import(*model, file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	// Verify by listing back through the same path the API serves.
	cases := service.NewTestCaseService(xpsRepo, ememberRepo, nil)
	var stored int
	switch *model {
	case service.ImportModelXPS:
		listed, err := cases.ListXPS(service.Filter{})
		if err != nil {
			log.Fatalf("Post-import verification failed: %v", err)
		}
		stored = len(listed)
	case service.ImportModelEMember:
		listed, err := cases.ListEMember(service.Filter{})
		if err != nil {
			log.Fatalf("Post-import verification failed: %v", err)
		}
		stored = len(listed)
	}

	log.Printf("Imported %d %s rows from %s; store now holds %d", rows, *model, *filePath, stored)
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Type {
	case "sqlite":
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
