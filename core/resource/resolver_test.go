package resource

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idField() []*Field {
	return []*Field{{ColumnName: "id", Attribute: "id", Widget: IntWidget{}}}
}

func TestStoreResolver(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(&book{ID: 7, Title: "The Hobbit"})
	resolver := newStoreResolver(store, idField())

	instance, found, err := resolver.GetInstance(ctx, map[string]string{"id": "7"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "The Hobbit", instance.(*book).Title)

	_, found, err = resolver.GetInstance(ctx, map[string]string{"id": "99"})
	require.NoError(t, err)
	assert.False(t, found)

	// Empty identification value means a fresh object.
	_, found, err = resolver.GetInstance(ctx, map[string]string{"id": ""})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreResolver_MissingColumn(t *testing.T) {
	resolver := newStoreResolver(newFakeStore(), idField())

	_, _, err := resolver.GetInstance(context.Background(), map[string]string{"title": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
}

func TestStoreResolver_BadIdentificationValue(t *testing.T) {
	resolver := newStoreResolver(newFakeStore(), idField())

	_, _, err := resolver.GetInstance(context.Background(), map[string]string{"id": "seven"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
	assert.True(t, errors.Is(err, ErrConversion))
}

func TestStoreResolver_MemoizesHits(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(&book{ID: 7, Title: "The Hobbit"})
	counting := &countingStore{fakeStore: store}
	resolver := newStoreResolver(counting, idField())

	first, found, err := resolver.GetInstance(ctx, map[string]string{"id": "7"})
	require.NoError(t, err)
	require.True(t, found)

	second, found, err := resolver.GetInstance(ctx, map[string]string{"id": "7"})
	require.NoError(t, err)
	require.True(t, found)

	assert.Same(t, first, second)
	assert.Equal(t, 1, counting.lookups)
}

type countingStore struct {
	*fakeStore
	lookups int
}

func (s *countingStore) Lookup(ctx context.Context, keys map[string]any) (any, bool, error) {
	s.lookups++
	return s.fakeStore.Lookup(ctx, keys)
}
