package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default user if none exists.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("linkkeep"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, nickname)
		VALUES ($1, $2, $3)
	`, "dev@linkkeep.local", string(hash), "Dev")
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	slog.Info("database seeded with default user",
		"email", "dev@linkkeep.local",
		"password", "linkkeep",
	)

	return nil
}
