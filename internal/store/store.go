// Package store implements the source record store: per-source document
// collections queryable by field-level case-insensitive substring match and
// upsertable by natural key, backed by Postgres (JSONB) or SQLite (JSON1).
package store

import (
	"context"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// Collection names for the logical data sources.
const (
	CollectionCrunchbase = "crunchbase_companies"
	CollectionLinkedIn   = "linkedin_companies"
	CollectionEnriched   = "enriched_data"
	CollectionJobs       = "linkedin_jobs"
	CollectionLeads      = "leads"
)

// KeyedDocument pairs a raw document with its natural key for batch upserts.
type KeyedDocument struct {
	Key string
	Doc model.Document
}

// Store defines the persistence interface consumed by the search and
// ingestion layers. Implementations must make Upsert idempotent: the same
// key overwrites, never duplicates.
type Store interface {
	// Find returns up to limit documents from the collection matching the
	// query. A limit <= 0 applies the implementation default.
	Find(ctx context.Context, collection string, q Query, limit int) ([]model.Document, error)
	// Count returns the number of documents matching the query.
	Count(ctx context.Context, collection string, q Query) (int64, error)
	// Upsert writes one document under its natural key.
	Upsert(ctx context.Context, collection, key string, doc model.Document) error
	// UpsertBatch writes a chunk of documents in one round trip.
	UpsertBatch(ctx context.Context, collection string, docs []KeyedDocument) (int64, error)
	// MergeFields shallow-merges fields into an existing document. Missing
	// keys are a no-op, mirroring update-without-upsert semantics.
	MergeFields(ctx context.Context, collection, key string, fields model.Document) error

	Migrate(ctx context.Context) error
	Close() error
}

// defaultFindLimit caps Find when the caller passes no limit.
const defaultFindLimit = 100
