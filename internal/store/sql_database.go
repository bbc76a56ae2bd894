package store

import (
	"database/sql"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/migrations"
)

type DB struct {
	*sql.DB
	driver     string
	classifier ErrorClassifier
	logger     *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// RetryableError reports whether err is a transient driver failure worth a
// second attempt. Without a classifier every error is permanent.
func (db *DB) RetryableError(err error) bool {
	if db.classifier == nil {
		return false
	}
	return db.classifier.Retryable(err)
}
