package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vocab-validator/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// insertBatchSize keeps a batch insert under SQLite's bound parameter limit.
const insertBatchSize = 500

// Ensure Store implements the interface.
var _ driven.ValueSetStore = (*Store)(nil)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Store is a SQL implementation of driven.ValueSetStore.
type Store struct {
	db   *sqlx.DB
	path string
}

// NewStore creates a SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.vocab-validator/data/valuesets.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vocab-validator", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "valuesets.db")
	s, err := Open(DriverSQLite, dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	s.path = dbPath
	return s, nil
}

// Open connects to a database with the given driver and DSN and runs migrations.
func Open(driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: unsupported storage driver %q", domain.ErrInvalidInput, driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time; WAL still allows concurrent readers.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: dsn}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path, or the DSN for non-file databases.
func (s *Store) Path() string {
	return s.path
}

// Driver returns the database driver name.
func (s *Store) Driver() string {
	return s.db.DriverName()
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_valuesets.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(s.db.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ValuesetOIDsExist returns true if at least one of the OIDs has a concept.
func (s *Store) ValuesetOIDsExist(ctx context.Context, oids []string) (bool, error) {
	if len(oids) == 0 {
		return false, nil
	}
	return s.exists(ctx, "SELECT 1 FROM valueset_concepts WHERE valueset_oid IN (?) LIMIT 1", oids)
}

// CodeExistsInValueset returns true if the code belongs to any of the value sets.
func (s *Store) CodeExistsInValueset(ctx context.Context, code string, oids []string) (bool, error) {
	if len(oids) == 0 {
		return false, nil
	}
	return s.exists(ctx,
		"SELECT 1 FROM valueset_concepts WHERE code = ? AND valueset_oid IN (?) LIMIT 1",
		domain.NormalizeKey(code), oids)
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return false, fmt.Errorf("expanding query: %w", err)
	}

	var one int
	err = s.db.GetContext(ctx, &one, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying value sets: %w", err)
	}
	return true, nil
}

const insertConcept = `
	INSERT INTO valueset_concepts
		(valueset_oid, valueset_name, code, display_name, code_system, code_system_name)
	VALUES
		(:valueset_oid, :valueset_name, :code, :display_name, :code_system, :code_system_name)`

// ReplaceAll deletes every concept and inserts the given ones in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, concepts []domain.ValueSetConcept) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM valueset_concepts"); err != nil {
		return fmt.Errorf("clearing value sets: %w", err)
	}

	for start := 0; start < len(concepts); start += insertBatchSize {
		end := min(start+insertBatchSize, len(concepts))
		batch := make([]domain.ValueSetConcept, 0, end-start)
		for _, c := range concepts[start:end] {
			c.Code = domain.NormalizeKey(c.Code)
			batch = append(batch, c)
		}
		if _, err := tx.NamedExecContext(ctx, insertConcept, batch); err != nil {
			return fmt.Errorf("inserting value set concepts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing value sets: %w", err)
	}
	return nil
}

// CountValuesets returns the number of distinct value set OIDs.
func (s *Store) CountValuesets(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(DISTINCT valueset_oid) FROM valueset_concepts"); err != nil {
		return 0, fmt.Errorf("counting value sets: %w", err)
	}
	return count, nil
}
