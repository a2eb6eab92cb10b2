package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Vijay-48/LeadIntel/internal/db"
	"github.com/Vijay-48/LeadIntel/internal/model"
)

// PostgresStore implements Store on a single JSONB documents table keyed by
// (collection, natural key).
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	doc        JSONB NOT NULL,
	loaded_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, key)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
CREATE INDEX IF NOT EXISTS idx_documents_doc ON documents USING GIN (doc);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, q Query, limit int) ([]model.Document, error) {
	if limit <= 0 {
		limit = defaultFindLimit
	}

	sql := `SELECT doc FROM documents WHERE collection = $1`
	args := []any{collection}
	sql, args = appendClauses(sql, args, q)
	sql += fmt.Sprintf(` ORDER BY key LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: find %s", collection)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s document", collection)
		}
		var doc model.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal %s document", collection)
		}
		docs = append(docs, doc)
	}
	return docs, eris.Wrapf(rows.Err(), "postgres: find %s iterate", collection)
}

func (s *PostgresStore) Count(ctx context.Context, collection string, q Query) (int64, error) {
	sql := `SELECT COUNT(*) FROM documents WHERE collection = $1`
	args := []any{collection}
	sql, args = appendClauses(sql, args, q)

	var count int64
	err := s.pool.QueryRow(ctx, sql, args...).Scan(&count)
	return count, eris.Wrapf(err, "postgres: count %s", collection)
}

func (s *PostgresStore) Upsert(ctx context.Context, collection, key string, doc model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal %s document", collection)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, key, doc, loaded_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (collection, key) DO UPDATE SET doc = $3, loaded_at = now()`,
		collection, key, raw,
	)
	return eris.Wrapf(err, "postgres: upsert %s/%s", collection, key)
}

func (s *PostgresStore) UpsertBatch(ctx context.Context, collection string, docs []KeyedDocument) (int64, error) {
	rows := make([][]any, 0, len(docs))
	for _, kd := range docs {
		raw, err := json.Marshal(kd.Doc)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal %s document %s", collection, kd.Key)
		}
		rows = append(rows, []any{collection, kd.Key, raw})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "documents",
		Columns:      []string{"collection", "key", "doc"},
		ConflictKeys: []string{"collection", "key"},
	}, rows)
}

func (s *PostgresStore) MergeFields(ctx context.Context, collection, key string, fields model.Document) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal %s patch", collection)
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE documents SET doc = doc || $3::jsonb WHERE collection = $1 AND key = $2`,
		collection, key, patch,
	)
	return eris.Wrapf(err, "postgres: merge fields %s/%s", collection, key)
}

// appendClauses extends the WHERE clause with one AND group per query
// clause, OR-ing the predicates inside each group.
func appendClauses(sql string, args []any, q Query) (string, []any) {
	for _, clause := range q {
		if len(clause) == 0 {
			continue
		}
		var parts []string
		for _, p := range clause {
			var part string
			switch p.Op {
			case OpContains:
				part = fmt.Sprintf(`(doc #> $%d)::text ILIKE $%d`, len(args)+1, len(args)+2)
				args = append(args, p.Path, "%"+escapeLike(p.Value)+"%")
			case OpEquals:
				part = fmt.Sprintf(`doc #>> $%d = $%d`, len(args)+1, len(args)+2)
				args = append(args, p.Path, p.Value)
			case OpIn:
				part = fmt.Sprintf(`doc #>> $%d = ANY($%d)`, len(args)+1, len(args)+2)
				args = append(args, p.Path, p.Values)
			case OpElemContains:
				part = fmt.Sprintf(
					`EXISTS (SELECT 1 FROM jsonb_array_elements(CASE WHEN jsonb_typeof(doc #> $%d) = 'array' THEN doc #> $%d ELSE '[]'::jsonb END) elem WHERE elem #>> $%d ILIKE $%d)`,
					len(args)+1, len(args)+2, len(args)+3, len(args)+4)
				elem := p.Elem
				if elem == nil {
					elem = []string{}
				}
				args = append(args, p.Path, p.Path, elem, "%"+escapeLike(p.Value)+"%")
			}
			parts = append(parts, part)
		}
		sql += ` AND (` + strings.Join(parts, ` OR `) + `)`
	}
	return sql, args
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
