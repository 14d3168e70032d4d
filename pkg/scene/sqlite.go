package scene

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/Faultbox/plyindex/pkg/encoding"
	"github.com/Faultbox/plyindex/pkg/math"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS objects (
    key TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    size_x REAL NOT NULL,
    size_y REAL NOT NULL,
    size_z REAL NOT NULL,
    center_x REAL,
    center_y REAL,
    center_z REAL,
    vertex_count INTEGER,
    face_count INTEGER,
    format TEXT,
    default_box INTEGER
)`,
	`CREATE TABLE IF NOT EXISTS labels (
    filename TEXT NOT NULL,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (filename, position)
)`,
	`CREATE INDEX IF NOT EXISTS labels_by_label ON labels(label)`,
}

// OpenSQLite opens (creating if needed) the SQLite mirror at path and makes
// sure its schema exists. Pass ":memory:" for an in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := EnsureSQLiteSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSQLiteSchema creates the objects and labels tables if missing.
func EnsureSQLiteSchema(db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating sqlite schema: %w", err)
		}
	}
	return nil
}

// ExportSQLite replaces the contents of the mirror with idx in a single
// transaction. files is optional build detail (center, counts, format);
// without it those columns are left NULL.
func ExportSQLite(ctx context.Context, db *sql.DB, idx *Index, files []FileResult) error {
	if ctx == nil {
		ctx = context.Background()
	}

	detail := make(map[string]FileResult, len(files))
	for _, f := range files {
		if f.Status != StatusSkipped {
			detail[f.Key] = f
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"objects", "labels"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	objStmt, err := tx.PrepareContext(ctx, `INSERT INTO objects(key, filename, size_x, size_y, size_z,
    center_x, center_y, center_z, vertex_count, face_count, format, default_box)
    VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer objStmt.Close()

	for _, key := range idx.Keys() {
		box := idx.BoundingBox[key]
		var (
			cx, cy, cz     sql.NullFloat64
			vertices, face sql.NullInt64
			format         sql.NullString
			defaultBox     sql.NullBool
		)
		if f, ok := detail[key]; ok {
			cx = sql.NullFloat64{Float64: f.Box.Center.X, Valid: f.Status == StatusIndexed}
			cy = sql.NullFloat64{Float64: f.Box.Center.Y, Valid: f.Status == StatusIndexed}
			cz = sql.NullFloat64{Float64: f.Box.Center.Z, Valid: f.Status == StatusIndexed}
			vertices = sql.NullInt64{Int64: int64(f.Vertices), Valid: true}
			defaultBox = sql.NullBool{Bool: f.Status == StatusDefaultBox, Valid: true}
			if f.Header != nil {
				face = sql.NullInt64{Int64: int64(f.Header.FaceCount), Valid: true}
				format = sql.NullString{String: f.Header.Format.String(), Valid: true}
			}
		}

		if _, err := objStmt.ExecContext(ctx, key, idx.Name[key],
			box.Size.X, box.Size.Y, box.Size.Z,
			cx, cy, cz, vertices, face, format, defaultBox); err != nil {
			return fmt.Errorf("inserting object %s: %w", key, err)
		}
	}

	labelStmt, err := tx.PrepareContext(ctx, `INSERT INTO labels(filename, position, label) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer labelStmt.Close()

	for filename, labels := range idx.Labels {
		for pos, label := range labels {
			if _, err := labelStmt.ExecContext(ctx, filename, pos, label); err != nil {
				return fmt.Errorf("inserting label %q for %s: %w", label, filename, err)
			}
		}
	}

	return tx.Commit()
}

// ObjectRow is one object found in the SQLite mirror.
type ObjectRow struct {
	Key      string
	Filename string
	Size     math.Vec3
}

// FindObjects returns the objects that carry term as a label or whose
// filename contains it, ordered by key.
func FindObjects(ctx context.Context, db *sql.DB, term string) ([]ObjectRow, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	term = encoding.FoldLower(term)

	rows, err := db.QueryContext(ctx, `SELECT DISTINCT o.key, o.filename, o.size_x, o.size_y, o.size_z
    FROM objects o LEFT JOIN labels l ON l.filename = o.filename
    WHERE l.label = ? OR instr(lower(o.filename), ?) > 0
    ORDER BY o.key`, term, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ObjectRow
	for rows.Next() {
		var r ObjectRow
		if err := rows.Scan(&r.Key, &r.Filename, &r.Size.X, &r.Size.Y, &r.Size.Z); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
