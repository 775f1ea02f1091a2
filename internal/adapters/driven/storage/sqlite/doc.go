// Package sqlite provides the SQL-backed value set repository.
//
// The default driver is modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO. The same store also runs against PostgreSQL through
// github.com/lib/pq when a shared value set database is preferred. Queries
// are written with sqlx and rebound to the driver's placeholder style.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the SQLite database is stored at ~/.vocab-validator/data/valuesets.db
//
// # Thread Safety
//
// All operations are thread-safe. ReplaceAll runs in one transaction, so
// readers see either the old or the new value sets.
package sqlite
