package store

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	sqliteScheme     = "sqlite://"
	sqliteMemory     = "sqlite::memory:"
	postgresScheme   = "postgres://"
	postgresqlScheme = "postgresql://"

	// sqlitePragmas makes concurrent writers wait on the database lock instead
	// of failing with SQLITE_BUSY.
	sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
)

// IbcData is the sole persisted unit: the encoded protocol object stored under a path.
type IbcData struct {
	Path string `gorm:"primaryKey"`
	Data []byte `gorm:"not null"`
}

// TableName implements gorm's tabler interface.
func (IbcData) TableName() string {
	return "ibc_data"
}

// OpenDB opens a database pool from a connection string. Supported forms are
// `sqlite://<file>`, `sqlite::memory:` and `postgres://` / `postgresql://` URIs.
func OpenDB(uri string) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(uri)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", storageError(err))
	}

	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("unable to access sqlite pool: %w", storageError(err))
		}
		// sqlite allows one writer; a single connection turns lock contention
		// into queueing on the pool.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates the ibc_data table if it does not exist yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&IbcData{}); err != nil {
		return fmt.Errorf("unable to run migrations: %w", storageError(err))
	}
	return nil
}

// CloseDB releases the pool behind db.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(uri string) (gorm.Dialector, bool, error) {
	trimmed := strings.TrimSpace(uri)
	switch {
	case trimmed == sqliteMemory:
		return sqlite.Open(":memory:"), true, nil
	case strings.HasPrefix(trimmed, sqliteScheme):
		path := strings.TrimPrefix(trimmed, sqliteScheme)
		if path == "" {
			return nil, false, errorsmod.Wrap(ErrInvalidDatabaseURI, "sqlite uri is missing a file path")
		}
		return sqlite.Open(withPragmas(path)), true, nil
	case strings.HasPrefix(trimmed, postgresScheme), strings.HasPrefix(trimmed, postgresqlScheme):
		return postgres.Open(trimmed), false, nil
	default:
		return nil, false, errorsmod.Wrapf(ErrInvalidDatabaseURI, "unsupported database uri %q, expected sqlite:// or postgres://", uri)
	}
}

func withPragmas(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}
