// Package sqlite provides the SQLite-backed architecture store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Scraped architecture
// documents live in a single table keyed by their content-derived ID, so a
// repeated scrape of the same template replaces the prior row in place.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. List-valued columns (resource types, parameter and
// output names) are stored as JSON text.
//
// # Data Location
//
// By default, the database is stored at ~/.azarch/data/architectures.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
