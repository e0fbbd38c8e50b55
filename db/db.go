package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

// DB holds the database connection
var DB *sql.DB

// Settings describes how to reach Postgres
type Settings struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnString builds the connection string, preferring URL when set
func (s Settings) ConnString() (string, error) {
	if s.URL != "" {
		return s.URL, nil
	}
	if s.Host == "" || s.User == "" || s.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	port := s.Port
	if port == "" {
		port = "5432"
	}
	sslmode := s.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, port, s.User, s.Password, s.Name, sslmode), nil
}

// InitDB opens the database connection and creates the schema
func InitDB(ctx context.Context, settings Settings) error {
	connStr, err := settings.ConnString()
	if err != nil {
		return err
	}

	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, DB); err != nil {
		return err
	}

	log.Printf("✓ Database connection established successfully")
	return nil
}

// Migrate creates the wardrobe tables if they do not exist
func Migrate(ctx context.Context, conn *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS wardrobe_items (
			id         TEXT PRIMARY KEY,
			position   BIGINT NOT NULL,
			image_ref  TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL CHECK (category IN ('Shirt', 'Pants', 'Shoes')),
			tags       TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
