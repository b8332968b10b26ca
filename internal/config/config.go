package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Drive    DriveConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Port          string
	Environment   string
	LogFilePath   string
	DataDir       string
	RemoteTimeout time.Duration
}

type TelegramConfig struct {
	BotToken       string
	SuggestionForm string
}

type DriveConfig struct {
	RootFolderID       string
	ServiceAccountJSON string
}

type DatabaseConfig struct {
	Path string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	dataDir := getEnv("DATA_DIR", ".")

	return &Config{
		App: AppConfig{
			Port:          getEnv("APP_PORT", "3000"),
			Environment:   getEnv("GO_ENV", "development"),
			LogFilePath:   getEnv("LOG_FILE_PATH", "bot.log"),
			DataDir:       dataDir,
			RemoteTimeout: time.Duration(getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			SuggestionForm: getEnv("SUGGESTION_FORM_URL", "https://forms.gle/FecbVJn69qDcsKcP8"),
		},
		Drive: DriveConfig{
			RootFolderID:       getEnv("GOOGLE_DRIVE_ROOT_FOLDER_ID", ""),
			ServiceAccountJSON: getEnv("SERVICE_ACCOUNT_JSON", ""),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", filepath.Join(dataDir, "file_cache.db")),
		},
	}
}

// MissingRequired reports the first required setting that is unset. The bot
// cannot start without a Telegram token, a Drive root folder and service
// account credentials.
func (c *Config) MissingRequired() string {
	switch {
	case c.Telegram.BotToken == "":
		return "TELEGRAM_BOT_TOKEN"
	case c.Drive.RootFolderID == "":
		return "GOOGLE_DRIVE_ROOT_FOLDER_ID"
	case c.Drive.ServiceAccountJSON == "":
		return "SERVICE_ACCOUNT_JSON"
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
