package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed architecture store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.ArchitectureStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.azarch/data/architectures.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".azarch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "architectures.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

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
		// Extract version number (e.g., "001_architectures.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or replaces a document keyed by its ID.
func (s *Store) Upsert(ctx context.Context, doc *domain.Architecture) error {
	resourceTypes, err := marshalList(doc.ResourceTypes)
	if err != nil {
		return fmt.Errorf("marshalling resource types: %w", err)
	}
	parameterNames, err := marshalList(doc.ParameterNames)
	if err != nil {
		return fmt.Errorf("marshalling parameter names: %w", err)
	}
	outputNames, err := marshalList(doc.OutputNames)
	if err != nil {
		return fmt.Errorf("marshalling output names: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO architectures (id, name, description, source_owner, source_repo, source_path,
			source_url, resource_types, parameter_names, output_names, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			source_owner = excluded.source_owner,
			source_repo = excluded.source_repo,
			source_path = excluded.source_path,
			source_url = excluded.source_url,
			resource_types = excluded.resource_types,
			parameter_names = excluded.parameter_names,
			output_names = excluded.output_names,
			scraped_at = excluded.scraped_at
	`, doc.ID, doc.Name, doc.Description, doc.SourceOwner, doc.SourceRepo, doc.SourcePath,
		doc.SourceURL, resourceTypes, parameterNames, outputNames, doc.ScrapedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving architecture: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Architecture, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, source_owner, source_repo, source_path,
			source_url, resource_types, parameter_names, output_names, scraped_at
		FROM architectures WHERE id = ?
	`, id)

	doc, err := scanArchitecture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List returns all documents ordered by name.
func (s *Store) List(ctx context.Context) ([]domain.Architecture, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, source_owner, source_repo, source_path,
			source_url, resource_types, parameter_names, output_names, scraped_at
		FROM architectures ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing architectures: %w", err)
	}
	defer rows.Close()

	var docs []domain.Architecture
	for rows.Next() {
		doc, err := scanArchitecture(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating architectures: %w", err)
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM architectures")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting architectures: %w", err)
	}
	return count, nil
}

// Delete removes a document by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM architectures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting architecture: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanArchitecture.
type scanner interface {
	Scan(dest ...any) error
}

func scanArchitecture(row scanner) (*domain.Architecture, error) {
	var doc domain.Architecture
	var resourceTypes, parameterNames, outputNames string
	var scrapedAt time.Time

	if err := row.Scan(&doc.ID, &doc.Name, &doc.Description,
		&doc.SourceOwner, &doc.SourceRepo, &doc.SourcePath, &doc.SourceURL,
		&resourceTypes, &parameterNames, &outputNames, &scrapedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning architecture: %w", err)
	}

	var err error
	if doc.ResourceTypes, err = unmarshalList(resourceTypes); err != nil {
		return nil, fmt.Errorf("unmarshaling resource types: %w", err)
	}
	if doc.ParameterNames, err = unmarshalList(parameterNames); err != nil {
		return nil, fmt.Errorf("unmarshaling parameter names: %w", err)
	}
	if doc.OutputNames, err = unmarshalList(outputNames); err != nil {
		return nil, fmt.Errorf("unmarshaling output names: %w", err)
	}

	doc.ScrapedAt = scrapedAt.UTC()
	return &doc, nil
}

// marshalList encodes a string list as JSON, mapping nil to "[]" so
// the column never stores SQL or JSON null.
func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalList(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
