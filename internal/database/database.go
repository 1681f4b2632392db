package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/internal/model"
)

const pingTimeout = 5 * time.Second

// Manager handles archive database connections and operations.
type Manager struct {
	DB                 *gorm.DB
	SqlDB              *sql.DB
	IsValid            bool
	ShouldArchiveLocal bool
	SqliteFilePath     string
	Logger             zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid:            false,
		ShouldArchiveLocal: false,
		Logger:             log,
	}
}

// Connect establishes the archive connection. Postgres is preferred; when it
// is unreachable the manager falls back to a local SQLite archive file so a
// review is never lost to a dead server.
func (m *Manager) Connect() error {
	db, err := m.GetPostgresDB()
	if err == nil {
		sqlDB, derr := db.DB()
		if derr == nil {
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			derr = sqlDB.PingContext(ctx)
			cancel()
			if derr == nil {
				m.DB = db
				m.SqlDB = sqlDB
				m.SqlDB.SetMaxOpenConns(10)
				m.IsValid = true
				m.Logger.Info().Msg("Connected to postgres archive")
				return nil
			}
		}
		err = derr
	}

	m.Logger.Error().Err(err).Msg("Failed to connect to postgres, archiving to local SQLite")
	m.ShouldArchiveLocal = true

	if m.SqliteFilePath == "" {
		path, perr := defaultArchivePath()
		if perr != nil {
			m.IsValid = false
			return fmt.Errorf("failed to prepare sqlite archive dir: %w", perr)
		}
		m.SqliteFilePath = path
	}

	m.DB, err = m.GetSqliteDB(m.SqliteFilePath)
	if err != nil || m.DB == nil {
		m.IsValid = false
		return fmt.Errorf("failed to open local SQLite archive: %w", err)
	}

	m.SqlDB, err = m.DB.DB()
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to access sql interface: %w", err)
	}

	// single writer keeps the archive file free of lock contention
	m.SqlDB.SetMaxOpenConns(1)
	m.IsValid = true
	m.Logger.Info().Str("path", m.SqliteFilePath).Msg("Using local SQLite archive")
	return nil
}

// GetPostgresDB returns a connection to the Postgres database.
func (m *Manager) GetPostgresDB() (*gorm.DB, error) {
	cfg := config.GetDBConfig()
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)

	m.Logger.Debug().Str("host", cfg.Host).Str("db", cfg.Name).Msg("Connecting to postgres")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	dsn := "file::memory:?cache=shared"
	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}

	if path != "" {
		dsn = path
		pragmas = []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA busy_timeout = 5000;",
			"PRAGMA synchronous = NORMAL;",
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		m.IsValid = false
		return nil, err
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Migrate creates or updates the archive schema.
func (m *Manager) Migrate() error {
	if m.DB == nil {
		return fmt.Errorf("migrate: no database connection")
	}
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// VacuumInto writes a compacted snapshot copy of the database to path,
// replacing any existing file there. SQLite only.
func (m *Manager) VacuumInto(path string) error {
	if path == "" {
		return fmt.Errorf("sqlite snapshot path not set")
	}
	if m.DB == nil {
		return fmt.Errorf("vacuum: no database connection")
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("error removing existing snapshot: %w", err)
		}
	}

	start := time.Now()
	if err := m.DB.Exec("VACUUM INTO 'file:" + path + "';").Error; err != nil {
		return fmt.Errorf("error writing snapshot: %w", err)
	}

	m.Logger.Debug().Dur("duration", time.Since(start)).Str("path", path).Msg("Wrote archive snapshot")
	return nil
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	m.IsValid = false
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}

// OpenArchive opens an existing SQLite archive file for reading marks back
// out (marks and reexport subcommands).
func OpenArchive(path string) (*gorm.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive not found: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return db, nil
}

// ListArchives returns paths to all .db files in the given directory.
func ListArchives(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dbPaths []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".db") {
			dbPaths = append(dbPaths, filepath.Join(dir, file.Name()))
		}
	}
	return dbPaths, nil
}

func defaultArchivePath() (string, error) {
	dir := config.GetString("sqlite.archiveDir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := "review_archive_" + time.Now().Format("20060102_150405") + ".db"
	return filepath.Join(dir, name), nil
}
