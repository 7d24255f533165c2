package infrastructure

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"resume-screener/domain"
)

// NewMySQLConnection opens the optional submission archive. When DB_DSN is
// not set the archive is disabled and the service runs purely in memory.
// Job progress never touches the database; only submitted job texts and
// upload metadata are archived.
func NewMySQLConnection() (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, nil
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Submission{}, &domain.Upload{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
