package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"tg-cognito/internal/config"
	"tg-cognito/internal/models"
	"tg-cognito/internal/storage"

	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Open(cfg.Database, cfg.Logger.Level)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	switch *action {
	case "migrate":
		if err := migrateDatabase(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		if err := checkStatus(db); err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// migrateDatabase creates or updates the chats table
func migrateDatabase(db *gorm.DB) error {
	fmt.Println("Migrating database...")

	if err := storage.NewRegistrationRepository(db).MigrateTable(); err != nil {
		return fmt.Errorf("failed to migrate Registration model: %w", err)
	}

	return nil
}

// resetDatabase drops the chats table and recreates it
func resetDatabase(db *gorm.DB) error {
	fmt.Println("Resetting database...")

	fmt.Print("WARNING: This will delete all registrations! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	if err := db.Migrator().DropTable(&models.Registration{}); err != nil {
		return fmt.Errorf("failed to drop chats table: %w", err)
	}

	return migrateDatabase(db)
}

// checkStatus reports whether the chats table exists and what it holds
func checkStatus(db *gorm.DB) error {
	fmt.Println("Checking database status...")

	if !db.Migrator().HasTable(&models.Registration{}) {
		fmt.Println("❌ chats table does not exist")
		return nil
	}
	fmt.Println("✅ chats table exists")

	repo := storage.NewRegistrationRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count registrations: %w", err)
	}
	fmt.Printf("   - Contains %d registrations\n", count)

	var failing int64
	if err := db.Model(&models.Registration{}).Where("errors > 0").Count(&failing).Error; err != nil {
		return fmt.Errorf("failed to count failing registrations: %w", err)
	}
	fmt.Printf("   - %d with pending delivery failures\n", failing)

	return nil
}
