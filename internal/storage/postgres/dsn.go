package postgres

import (
	"fmt"

	"github.com/freelance-market/market-backend/config"
)

// DSN builds a libpq-style connection string from the database config.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
