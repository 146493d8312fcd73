package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/redlinehq/redline/internal/data/db"
)

// IsBusyError reports whether err is SQLITE_BUSY, raised when another
// redline process holds the write lock.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError reports whether err means the database file itself is
// unreadable, as opposed to a failed statement.
func IsCorruptionError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}

	// The driver reports some corruption only as message text.
	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// IsNotFoundError reports whether err is a missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// RecoverFromCorruption moves the database and its WAL/SHM sidecars aside
// under a timestamped .corrupt name; the next Open starts fresh. The
// sidecars must go with the main file or SQLite pairs the new database with
// a stale WAL.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupBase := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, backupBase+suffix); err != nil {
			if suffix == "" {
				return fmt.Errorf("back up corrupted database: %w", err)
			}
			// A sidecar that cannot be renamed still has to go.
			if rmErr := os.Remove(src); rmErr != nil {
				return fmt.Errorf("remove %s sidecar: %w", src, rmErr)
			}
		}
	}

	return nil
}
