package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Local durable store
	SQLitePath string
	DataOwner  string

	// Folder sync
	SyncEnabled   bool
	SyncFileName  string
	SyncInterval  time.Duration
	SweepInterval time.Duration

	// AuthN (tokens issued by the external identity provider, verified here)
	JWTSecret string

	// Messaging transport
	WhatsAppAPIURL string

	// Rate limiting, ulule/limiter formatted rate (e.g. "100-M")
	RateLimit string

	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SQLITE_PATH", "debtdesk.db")
	viper.SetDefault("DATA_OWNER", "")
	viper.SetDefault("SYNC_ENABLED", true)
	viper.SetDefault("SYNC_FILE_NAME", "debtdesk-data.json")
	viper.SetDefault("SYNC_INTERVAL", "30s")
	viper.SetDefault("SWEEP_INTERVAL", "1h")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("WHATSAPP_API_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.DataOwner = viper.GetString("DATA_OWNER")
	cfg.SyncEnabled = viper.GetBool("SYNC_ENABLED")
	cfg.SyncFileName = viper.GetString("SYNC_FILE_NAME")

	syncIntervalStr := viper.GetString("SYNC_INTERVAL")
	syncInterval, err := time.ParseDuration(syncIntervalStr)
	if err != nil {
		syncInterval = 30 * time.Second
		log.Printf("Warning: Invalid value for SYNC_INTERVAL ('%s'). Defaulting to %s.\n", syncIntervalStr, syncInterval)
	}
	cfg.SyncInterval = syncInterval

	sweepIntervalStr := viper.GetString("SWEEP_INTERVAL")
	sweepInterval, err := time.ParseDuration(sweepIntervalStr)
	if err != nil {
		sweepInterval = time.Hour
		log.Printf("Warning: Invalid value for SWEEP_INTERVAL ('%s'). Defaulting to %s.\n", sweepIntervalStr, sweepInterval)
	}
	cfg.SweepInterval = sweepInterval

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.WhatsAppAPIURL = viper.GetString("WHATSAPP_API_URL")
	if cfg.WhatsAppAPIURL == "" {
		log.Println("Warning: WHATSAPP_API_URL not set. Collection messages will not be delivered.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")

	return cfg, nil
}
