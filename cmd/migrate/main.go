package main

import (
	"log"

	"course-material-bot/internal/config"
	"course-material-bot/internal/model"
	"course-material-bot/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Path)
	if err != nil {
		log.Fatal("Error: Failed to open cache database:", err)
	}

	log.Println("Starting GORM Migration...")

	if err := db.AutoMigrate(&model.CachedFile{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Printf("✅ Success: cache database migrated at %s", cfg.Database.Path)
}
