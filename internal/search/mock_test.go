package search

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/store"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Find(ctx context.Context, collection string, q store.Query, limit int) ([]model.Document, error) {
	args := m.Called(ctx, collection, q, limit)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, collection string, q store.Query) (int64, error) {
	args := m.Called(ctx, collection, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Upsert(ctx context.Context, collection, key string, doc model.Document) error {
	return m.Called(ctx, collection, key, doc).Error(0)
}

func (m *mockStore) UpsertBatch(ctx context.Context, collection string, docs []store.KeyedDocument) (int64, error) {
	args := m.Called(ctx, collection, docs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) MergeFields(ctx context.Context, collection, key string, fields model.Document) error {
	return m.Called(ctx, collection, key, fields).Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
