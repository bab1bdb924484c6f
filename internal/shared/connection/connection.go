package connection

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectSQLiteWithRetry opens the local attendance store. The DSN enables WAL
// and a busy timeout so the kiosk process and the sync worker can share the
// file without SQLITE_BUSY storms.
func ConnectSQLiteWithRetry(path string, maxRetries int) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)

	var lastErr error

	for i := 1; i <= maxRetries; i++ {

		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			lastErr = err
			log.Printf("sqlite open failed (%d/%d): %v", i, maxRetries, err)
			time.Sleep(2 * time.Second)
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			log.Printf("get sql.DB failed (%d/%d): %v", i, maxRetries, err)
			time.Sleep(2 * time.Second)
			continue
		}

		if err := sqlDB.Ping(); err != nil {
			lastErr = err
			log.Printf("sqlite ping failed (%d/%d): %v", i, maxRetries, err)
			time.Sleep(2 * time.Second)
			continue
		}

		// Single writer: the engine serializes all mutations anyway, and one
		// connection keeps sqlite's locking out of the picture.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(time.Hour)

		return db, nil
	}

	return nil, fmt.Errorf("sqlite connection failed after %d retries: %w", maxRetries, lastErr)
}
