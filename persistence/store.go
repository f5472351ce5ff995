package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/lixenwraith/depthgen/level"
)

const schema = `
CREATE TABLE IF NOT EXISTS levels (
	name       TEXT PRIMARY KEY,
	seed       TEXT NOT NULL,
	biome_id   TEXT NOT NULL,
	level_type TEXT NOT NULL,
	difficulty REAL NOT NULL,
	record     BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS levels_biome ON levels (biome_id);
`

// StoredLevel is one row of the level store
type StoredLevel struct {
	Name      string
	Data      level.LevelData
	UpdatedAt time.Time
}

// Store persists level records in SQLite
// Searchable fields are columns; the full record is a YAML blob
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite level store and creates the schema
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put inserts or replaces a named record
func (s *Store) Put(ctx context.Context, name string, data level.LevelData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("level name is required")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal level %q: %w", name, err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO levels (name, seed, biome_id, level_type, difficulty, record, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   seed = excluded.seed,
		   biome_id = excluded.biome_id,
		   level_type = excluded.level_type,
		   difficulty = excluded.difficulty,
		   record = excluded.record,
		   updated_at = excluded.updated_at`,
		name,
		data.Seed,
		data.BiomeID,
		string(data.LevelTypeOrDefault()),
		data.Difficulty,
		raw,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put level %q: %w", name, err)
	}
	return nil
}

// Get returns one record by name
func (s *Store) Get(ctx context.Context, name string) (StoredLevel, error) {
	if err := ctx.Err(); err != nil {
		return StoredLevel{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT name, record, updated_at FROM levels WHERE name = ?`, name)
	out, err := scanLevel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredLevel{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return out, err
}

// ListByBiome returns every record of a biome ordered by name; empty biome lists all
func (s *Store) ListByBiome(ctx context.Context, biomeID string) ([]StoredLevel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := `SELECT name, record, updated_at FROM levels`
	var args []any
	if biomeID != "" {
		query += ` WHERE biome_id = ?`
		args = append(args, biomeID)
	}
	query += ` ORDER BY name`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var out []StoredLevel
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Delete removes a record by name
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM levels WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete level %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLevel(sc scanner) (StoredLevel, error) {
	var (
		out     StoredLevel
		raw     []byte
		updated int64
	)
	if err := sc.Scan(&out.Name, &raw, &updated); err != nil {
		return StoredLevel{}, err
	}
	if err := yaml.Unmarshal(raw, &out.Data); err != nil {
		return StoredLevel{}, fmt.Errorf("unmarshal level %q: %w", out.Name, err)
	}
	out.UpdatedAt = time.UnixMilli(updated).UTC()
	return out, nil
}
