package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite with documents
// stored as JSON text. Substring matching relies on LIKE, which is
// case-insensitive for ASCII. Intended for local development and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	doc        TEXT NOT NULL,
	loaded_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (collection, key)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Find(ctx context.Context, collection string, q Query, limit int) ([]model.Document, error) {
	if limit <= 0 {
		limit = defaultFindLimit
	}

	query := `SELECT doc FROM documents WHERE collection = ?`
	args := []any{collection}
	query, args = appendSQLiteClauses(query, args, q)
	query += ` ORDER BY key LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: find %s", collection)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s document", collection)
		}
		var doc model.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal %s document", collection)
		}
		docs = append(docs, doc)
	}
	return docs, eris.Wrapf(rows.Err(), "sqlite: find %s iterate", collection)
}

func (s *SQLiteStore) Count(ctx context.Context, collection string, q Query) (int64, error) {
	query := `SELECT COUNT(*) FROM documents WHERE collection = ?`
	args := []any{collection}
	query, args = appendSQLiteClauses(query, args, q)

	var count int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, eris.Wrapf(err, "sqlite: count %s", collection)
}

func (s *SQLiteStore) Upsert(ctx context.Context, collection, key string, doc model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal %s document", collection)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, doc, loaded_at) VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT (collection, key) DO UPDATE SET doc = excluded.doc, loaded_at = excluded.loaded_at`,
		collection, key, string(raw),
	)
	return eris.Wrapf(err, "sqlite: upsert %s/%s", collection, key)
}

func (s *SQLiteStore) UpsertBatch(ctx context.Context, collection string, docs []KeyedDocument) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (collection, key, doc, loaded_at) VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT (collection, key) DO UPDATE SET doc = excluded.doc, loaded_at = excluded.loaded_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	var n int64
	for _, kd := range docs {
		raw, err := json.Marshal(kd.Doc)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal %s document %s", collection, kd.Key)
		}
		if _, err := stmt.ExecContext(ctx, collection, kd.Key, string(raw)); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert %s/%s", collection, kd.Key)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}
	return n, nil
}

func (s *SQLiteStore) MergeFields(ctx context.Context, collection, key string, fields model.Document) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal %s patch", collection)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE documents SET doc = json_patch(doc, ?) WHERE collection = ? AND key = ?`,
		string(patch), collection, key,
	)
	return eris.Wrapf(err, "sqlite: merge fields %s/%s", collection, key)
}

// appendSQLiteClauses mirrors the Postgres clause builder using json_extract
// paths and LIKE matching.
func appendSQLiteClauses(query string, args []any, q Query) (string, []any) {
	for _, clause := range q {
		if len(clause) == 0 {
			continue
		}
		var parts []string
		for _, p := range clause {
			path := sqlitePath(p.Path)
			switch p.Op {
			case OpContains:
				parts = append(parts, `json_extract(doc, ?) LIKE ? ESCAPE '\'`)
				args = append(args, path, "%"+escapeLike(p.Value)+"%")
			case OpEquals:
				parts = append(parts, `json_extract(doc, ?) = ?`)
				args = append(args, path, p.Value)
			case OpIn:
				placeholders := strings.TrimSuffix(strings.Repeat("?,", len(p.Values)), ",")
				parts = append(parts, fmt.Sprintf(`json_extract(doc, ?) IN (%s)`, placeholders))
				args = append(args, path)
				for _, v := range p.Values {
					args = append(args, v)
				}
			case OpElemContains:
				elemExpr := `e.value`
				if len(p.Elem) > 0 {
					elemExpr = `json_extract(e.value, ?)`
				}
				parts = append(parts, fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(doc, ?) e WHERE %s LIKE ? ESCAPE '\')`, elemExpr))
				args = append(args, path)
				if len(p.Elem) > 0 {
					args = append(args, sqlitePath(p.Elem))
				}
				args = append(args, "%"+escapeLike(p.Value)+"%")
			}
		}
		query += ` AND (` + strings.Join(parts, ` OR `) + `)`
	}
	return query, args
}

func sqlitePath(path []string) string {
	return "$." + strings.Join(path, ".")
}
