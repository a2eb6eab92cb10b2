package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_Find_NoQuery(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT doc FROM documents WHERE collection = \$1 ORDER BY key LIMIT \$2`).
		WithArgs(CollectionCrunchbase, 10).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"name":"Apple Inc."}`)).
			AddRow([]byte(`{"name":"Banana LLC"}`)))

	docs, err := s.Find(context.Background(), CollectionCrunchbase, nil, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Apple Inc.", docs[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Find_ContainsClause(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	q := Query{}.And(AnyOf(
		Contains("apple", "name"),
		Contains("apple", "about"),
	))

	mock.ExpectQuery(`SELECT doc FROM documents WHERE collection = \$1 AND \(\(doc #> \$2\)::text ILIKE \$3 OR \(doc #> \$4\)::text ILIKE \$5\) ORDER BY key LIMIT \$6`).
		WithArgs(CollectionCrunchbase, []string{"name"}, "%apple%", []string{"about"}, "%apple%", 5).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"name":"Apple Inc."}`)))

	docs, err := s.Find(context.Background(), CollectionCrunchbase, q, 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Find_ElemContainsClause(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	q := Query{}.And(AnyOf(ElemContains("software", []string{"industries"}, "value")))

	mock.ExpectQuery(`SELECT doc FROM documents WHERE collection = \$1 AND \(EXISTS \(SELECT 1 FROM jsonb_array_elements\(CASE WHEN jsonb_typeof\(doc #> \$2\) = 'array' THEN doc #> \$3 ELSE '\[\]'::jsonb END\) elem WHERE elem #>> \$4 ILIKE \$5\)\) ORDER BY key LIMIT \$6`).
		WithArgs(CollectionCrunchbase, []string{"industries"}, []string{"industries"}, []string{"value"}, "%software%", 5).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"name":"Acme","industries":[{"value":"Software"}]}`)))

	docs, err := s.Find(context.Background(), CollectionCrunchbase, q, 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Find_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT doc FROM documents`).
		WithArgs(CollectionJobs, defaultFindLimit).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}))

	docs, err := s.Find(context.Background(), CollectionJobs, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count_InClause(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	q := Query{}.And(AnyOf(In([]string{"apollo_csv", "apollo_csv_companies"}, "data_source")))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE collection = \$1 AND \(doc #>> \$2 = ANY\(\$3\)\)`).
		WithArgs(CollectionEnriched, []string{"data_source"}, []string{"apollo_csv", "apollo_csv_companies"}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := s.Count(context.Background(), CollectionEnriched, q)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO documents \(collection, key, doc, loaded_at\)`).
		WithArgs(CollectionCrunchbase, "cb-1", []byte(`{"id":"cb-1","name":"Apple Inc."}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Upsert(context.Background(), CollectionCrunchbase, "cb-1",
		model.Document{"id": "cb-1", "name": "Apple Inc."})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MergeFields(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE documents SET doc = doc \|\| \$3::jsonb WHERE collection = \$1 AND key = \$2`).
		WithArgs(CollectionLinkedIn, "li-9", []byte(`{"industries":["Software"]}`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.MergeFields(context.Background(), CollectionLinkedIn, "li-9",
		model.Document{"industries": []any{"Software"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS documents`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
}
