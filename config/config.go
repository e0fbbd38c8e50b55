package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/db"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"

	ImagesLocal = "local"
	ImagesDrive = "drive"
)

// Config holds the application settings read from the environment
type Config struct {
	Env      string
	Port     string
	BaseURL  string
	LogLevel string

	CatalogBackend string
	DataPath       string
	Database       db.Settings

	ImageBackend    string
	ImageFolder     string
	CacheDir        string
	DriveFolderID   string
	CredentialsPath string

	ChromePath string
}

// LoadEnvFile loads .env in development so its values override the system environment.
// In production, variables should be set directly.
func LoadEnvFile(path string) {
	if os.Getenv("ENV") == "production" {
		return
	}
	if err := godotenv.Overload(path); err != nil {
		log.Debugf(".env file not found at %s, using system environment variables", path)
		return
	}
	log.Printf("Loaded environment variables from %s", path)
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getenv("ENV", "development"),
		Port:     strings.TrimPrefix(getenv("PORT", "8080"), ":"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		CatalogBackend: strings.ToLower(getenv("CATALOG_BACKEND", BackendCSV)),
		DataPath:       getenv("DATA_PATH", "wardrobe.csv"),
		Database: db.Settings{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},

		ImageBackend:    strings.ToLower(getenv("IMAGE_BACKEND", ImagesLocal)),
		ImageFolder:     getenv("IMAGE_FOLDER", "images"),
		CacheDir:        getenv("CACHE_DIR", "cache/images"),
		DriveFolderID:   os.Getenv("DRIVE_FOLDER_ID"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		ChromePath: os.Getenv("CHROME_PATH"),
	}
	cfg.BaseURL = getenv("BASE_URL", "http://localhost:"+cfg.Port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	switch c.CatalogBackend {
	case BackendCSV:
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH is required for the csv catalog backend")
		}
	case BackendPostgres:
		if _, err := c.Database.ConnString(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q (expected %s or %s)", c.CatalogBackend, BackendCSV, BackendPostgres)
	}

	switch c.ImageBackend {
	case ImagesLocal:
	case ImagesDrive:
		if c.CredentialsPath == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
		}
		if c.DriveFolderID == "" {
			return fmt.Errorf("DRIVE_FOLDER_ID environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown IMAGE_BACKEND %q (expected %s or %s)", c.ImageBackend, ImagesLocal, ImagesDrive)
	}
	return nil
}

// ConfigureLogging applies the log level
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Printf("⚠️  Unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
