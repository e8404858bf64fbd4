package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/observability"
	"github.com/matzehuels/icongrid/pkg/placement"
)

// SQLiteStore keeps positions in a SQLite database file.
type SQLiteStore struct {
	db    *sql.DB
	scope string
	now   func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and prepares
// its schema. The parent directory is created if it doesn't exist.
func OpenSQLite(ctx context.Context, path, scope string) (*SQLiteStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if scope == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "store scope cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store directory")
	}

	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	// WAL lets the view and a CLI run share the file; busy_timeout avoids
	// spurious "database is locked" errors between them.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "configure %s", path)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "migrate %s", path)
	}
	return &SQLiteStore{db: db, scope: scope, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			scope TEXT NOT NULL,
			id TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(scope, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_positions_updated ON positions(scope, updated_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// SetPosition upserts the anchor of id.
func (s *SQLiteStore) SetPosition(ctx context.Context, id placement.ID, anchor geom.Point) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO positions(scope, id, x, y, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(scope, id) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			updated_at_unixms = excluded.updated_at_unixms
	`, s.scope, string(id), anchor.X, anchor.Y, s.now().UnixMilli())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save position of %s", id)
	}
	observability.Store().OnPositionSaved(ctx, s.scope)
	return nil
}

// Positions returns every entry in the scope ordered by id.
func (s *SQLiteStore) Positions(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, x, y, updated_at_unixms
		FROM positions
		WHERE scope = ?
		ORDER BY id
	`, s.scope)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load positions")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id      string
			x, y    float64
			updated int64
		)
		if err := rows.Scan(&id, &x, &y, &updated); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan position")
		}
		out = append(out, Entry{
			ID:        placement.ID(id),
			Anchor:    geom.Point{X: x, Y: y},
			UpdatedAt: time.UnixMilli(updated),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load positions")
	}
	observability.Store().OnPositionsLoaded(ctx, s.scope, len(out))
	return out, nil
}

// Delete removes the position of id.
func (s *SQLiteStore) Delete(ctx context.Context, id placement.ID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM positions WHERE scope = ? AND id = ?`, s.scope, string(id)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete position of %s", id)
	}
	return nil
}

// Clear removes every position in the scope.
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM positions WHERE scope = ?`, s.scope)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "clear positions")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "clear positions")
	}
	return int(n), nil
}

// Scopes lists every scope with saved positions.
func (s *SQLiteStore) Scopes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT scope FROM positions ORDER BY scope`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list scopes")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan scope")
		}
		out = append(out, scope)
	}
	return out, rows.Err()
}

// Scope returns the store's scope.
func (s *SQLiteStore) Scope() string { return s.scope }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
