package database

import (
	"fmt"
	"time"

	"lubricentro-ws/internal/config"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the Postgres pool. Unique and foreign key violations come back
// as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func ConnectDB(cfg config.DBConfig, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statements for Supabase Transaction Mode
	}), &gorm.Config{
		Logger:         NewGormLogger(log, time.Second),
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("database connection established")
	return db, nil
}
