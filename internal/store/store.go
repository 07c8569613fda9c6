package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialect names as reported by Store.Dialect.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Store is the database layer behind the generated CRUD operations. All
// tables are created from resource descriptors at startup; rows travel as
// maps because the set of columns is only known at runtime.
type Store struct {
	db      *gorm.DB
	dialect string
}

// Open connects to the database selected by the DSN: postgres:// (or
// postgresql://, or a key=value conninfo string) opens PostgreSQL, anything
// else is treated as an SQLite file path (":memory:" works for tests).
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty database DSN")
	}
	dialect := DialectSQLite
	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialect = DialectPostgres
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(sqliteDSN(dsn))
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(16)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return &Store{db: db, dialect: dialect}, nil
}

// sqliteDSN enables foreign key enforcement, which sqlite leaves off per
// connection unless asked.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func isPostgresDSN(dsn string) bool {
	low := strings.ToLower(dsn)
	return strings.HasPrefix(low, "postgres://") ||
		strings.HasPrefix(low, "postgresql://") ||
		strings.Contains(low, "host=")
}

// Dialect returns the active dialect name (sqlite or postgres).
func (s *Store) Dialect() string { return s.dialect }

// Ping verifies the underlying connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
