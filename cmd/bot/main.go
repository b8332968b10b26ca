package main

import (
	"context"
	"log"
	"os"

	"course-material-bot/internal/bootstrap"
	"course-material-bot/internal/config"
	"course-material-bot/internal/model"
	"course-material-bot/internal/server"
	"course-material-bot/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if missing := cfg.MissingRequired(); missing != "" {
		log.Fatalf("Required environment variable is missing: %s", missing)
	}

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		log.Fatalf("Unable to create data directory: %v", err)
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Path)
	if err != nil {
		log.Panicf("Unable to open cache database: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.CachedFile{}); err != nil {
		log.Panicf("Cache table migration failed: %v", err)
	}
	log.Printf("Cache database initialized at: %s", cfg.Database.Path)

	// 3. Bootstrap Dependencies (Container)
	ctx := context.Background()
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	if err := container.UsageService.Consume(ctx); err != nil {
		log.Printf("Background Usage Consumer Error: %v", err)
	}

	// 5. Status server (liveness for the hosting platform)
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Status server error: %v", err)
		}
	}()

	// 6. Run the update loop
	log.Println("Bot is starting...")
	container.Router.Run(ctx)
}
