package sqlite

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultDSN is used when store.dsn is empty.
const DefaultDSN = "file:llm-translate.db"

var defaultPragmas = []string{"_busy_timeout=5000", "_journal_mode=WAL", "_foreign_keys=on"}

// Open connects to the settings database and brings its schema up to date.
func Open(dsn string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn = withPragmas(dsn)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	// settings writes are a delete+upsert pair; one writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	version, err := migrateUp(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate settings db: %w", err)
	}
	logger.Debug("settings db ready", zap.Uint("schema_version", version))

	return NewRepository(db), nil
}

// withPragmas appends the connection pragmas the caller did not set.
func withPragmas(dsn string) string {
	if dsn == "" {
		dsn = DefaultDSN
	}
	var missing []string
	for _, p := range defaultPragmas {
		name := p[:strings.IndexByte(p, '=')+1]
		if !strings.Contains(dsn, name) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(missing, "&")
}

func migrateUp(db *sqlx.DB) (uint, error) {
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return 0, err
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return 0, err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, err
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
