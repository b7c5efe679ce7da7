/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rwstudio/internal/domain"
	applog "rwstudio/internal/log"
	"rwstudio/internal/schema"
	"rwstudio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores per-project ephemeral/index data under the project root.
	IndexDirName  = ".rws"
	IndexFileName = "index.sqlite"

	// indexSchemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this on breaking schema changes and add a migration step.
	indexSchemaVersion = 1
)

// IndexPath returns the full path to the project's embedded index database.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-project SQLite index exists at
// .rws/index.sqlite, opens it, enables WAL mode, and ensures the meta and
// version tables exist. Callers close the returned *sql.DB when done.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .rws dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .rws dir: %w", err)
	}

	path := IndexPath(projectRoot)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, indexSchemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the field catalog and its FTS mirror. Every
// field value of the project lands in one row; item is NULL for the
// manifest and for singular sections.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS fields (
			field_id INTEGER PRIMARY KEY,
			unit_id  TEXT NOT NULL,
			section  TEXT NOT NULL,
			item     INTEGER,
			field    TEXT NOT NULL,
			value    TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fields_unit ON fields(unit_id);`,
		`CREATE INDEX IF NOT EXISTS idx_fields_section ON fields(section);`,

		// Contentless FTS5 index fed from fields via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_fields USING fts5(
			value,
			content='',
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS fields_ai AFTER INSERT ON fields BEGIN
			INSERT INTO fts_fields(rowid, value) VALUES (new.field_id, new.value);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS fields_ad AFTER DELETE ON fields BEGIN
			INSERT INTO fts_fields(fts_fields, rowid, value) VALUES ('delete', old.field_id, old.value);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS fields_au AFTER UPDATE OF value ON fields BEGIN
			INSERT INTO fts_fields(fts_fields, rowid, value) VALUES ('delete', old.field_id, old.value);
			INSERT INTO fts_fields(rowid, value) VALUES (new.field_id, new.value);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// RebuildIndex wipes and refills the field catalog from the in-memory
// project. Called after open and after save; the index is a cache and can
// always be regenerated.
func RebuildIndex(ctx context.Context, projectRoot string, proj *domain.Project) error {
	if proj == nil {
		return errors.New("nil project")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM fields`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear fields: %w", err)
	}

	insert := func(unitID, section string, item any, field, value string) error {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO fields(unit_id, section, item, field, value) VALUES (?, ?, ?, ?, ?)`,
			unitID, section, item, field, value)
		return err
	}

	for _, f := range proj.Manifest.Fields() {
		if err := insert("", schema.SectionModInfo, nil, f, proj.Manifest.Value(f)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("index manifest: %w", err)
		}
	}
	for _, u := range proj.Units {
		for _, sec := range schema.Singular() {
			r := u.Singular[sec.ID]
			if r == nil {
				continue
			}
			for _, f := range r.Fields() {
				if err := insert(u.ID, sec.ID, nil, f, r.Value(f)); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("index %s/%s: %w", u.ID, sec.ID, err)
				}
			}
		}
		for _, sec := range schema.Multi() {
			for i, item := range u.Multi[sec.ID] {
				for _, f := range item.Fields() {
					if err := insert(u.ID, sec.ID, i, f, item.Value(f)); err != nil {
						_ = tx.Rollback()
						return fmt.Errorf("index %s/%s[%d]: %w", u.ID, sec.ID, i, err)
					}
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// SearchQuery describes an in-project search. Text uses SQLite FTS5 syntax
// (simple terms, phrases in quotes, AND/OR/NOT); the other filters are
// optional exact matches. Limit defaults to 100 when zero.
type SearchQuery struct {
	Text    string
	UnitID  string
	Section string
	Limit   int
	Offset  int
}

// SearchResult is a single matching field row. Item is -1 for singular
// sections and the manifest.
type SearchResult struct {
	FieldID int64
	UnitID  string
	Section string
	Item    int
	Field   string
	Value   string
	Snippet string
}

// Search runs full-text search with optional filters over the embedded
// index. When q.Text is empty it falls back to a plain filtered scan.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT f.field_id, f.unit_id, f.section, COALESCE(f.item,-1), f.field, f.value, snippet(fts_fields, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_fields JOIN fields f ON fts_fields.rowid = f.field_id\n")
		sb.WriteString("WHERE fts_fields MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT f.field_id, f.unit_id, f.section, COALESCE(f.item,-1), f.field, f.value, ''\n")
		sb.WriteString("FROM fields f\nWHERE 1=1\n")
	}
	if s := strings.TrimSpace(q.UnitID); s != "" {
		sb.WriteString(" AND f.unit_id = ?\n")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.Section); s != "" {
		sb.WriteString(" AND f.section = ?\n")
		args = append(args, s)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	sb.WriteString(" ORDER BY f.field_id LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.FieldID, &r.UnitID, &r.Section, &r.Item, &r.Field, &r.Value, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		// snippet() is NULL on a contentless FTS table; show the stored
		// value instead.
		if sn.Valid && sn.String != "" {
			r.Snippet = sn.String
		} else {
			r.Snippet = r.Value
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
