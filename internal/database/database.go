package database

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// OpenDB creates and configures the MySQL connection pool for dsn and
// verifies it with a ping.
func OpenDB(dsn string, logger logrus.FieldLogger) (*sql.DB, error) {
	// 1. --- Open the pool ---
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// 2. --- Pool settings ---
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. --- Verify ---
	if err := db.Ping(); err != nil {
		db.Close()
		logger.WithError(err).Error("error connecting to database")
		return nil, err
	}

	logger.Info("database connection pool established")
	return db, nil
}
