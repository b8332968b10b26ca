package bootstrap

import (
	"context"
	"log"

	"course-material-bot/internal/bot"
	"course-material-bot/internal/config"
	"course-material-bot/internal/pkg/logger"
	"course-material-bot/internal/repository/contract"
	"course-material-bot/internal/repository/implementation"
	"course-material-bot/internal/repository/memory"
	"course-material-bot/internal/service"
	"course-material-bot/pkg/drive"
	"course-material-bot/pkg/gateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const deliveredTopic = "DOCUMENT_DELIVERED"

type Container struct {
	Router              *bot.Router
	Logger              logger.ILogger
	FileCacheRepository contract.FileCacheRepository

	// Background Services (Exposed for main.go to run)
	UsageService service.IUsageService
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External Clients
	remoteStore, err := drive.NewGoogleStore(ctx, cfg.Drive.ServiceAccountJSON, cfg.App.RemoteTimeout)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Google Drive client: %v", err)
	}
	log.Println("[INFO] Google Drive service initialized successfully")

	telegram, err := gateway.NewTelegram(cfg.Telegram.BotToken, cfg.App.RemoteTimeout)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Telegram client: %v", err)
	}
	log.Printf("[INFO] Authorized on Telegram account: %s", telegram.Username())

	// 4. Repositories
	fileCacheRepo := implementation.NewFileCacheRepository(db)
	sessionRepo := memory.NewSessionRepository()

	// 5. Services
	resolver := drive.NewResolver(remoteStore, cfg.Drive.RootFolderID, sysLogger)
	publisherService := service.NewPublisherService(deliveredTopic, pubSub)
	usageService := service.NewUsageService(pubSub, deliveredTopic, sysLogger)
	locatorService := service.NewLocatorService(
		sessionRepo, fileCacheRepo, resolver, remoteStore, telegram, publisherService, sysLogger)
	catalogService := service.NewCatalogService(sessionRepo, resolver)

	// 6. Bot Router
	router := bot.NewRouter(telegram, sessionRepo, locatorService, catalogService,
		cfg.Telegram.SuggestionForm, sysLogger)

	return &Container{
		Router:              router,
		Logger:              sysLogger,
		FileCacheRepository: fileCacheRepo,
		UsageService:        usageService,
	}
}
