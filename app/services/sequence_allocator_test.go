package services

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/Kusanagi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCounterRepo hands out values from an in-memory map
type fakeCounterRepo struct {
	values map[string]int64
	err    error
}

func (f *fakeCounterRepo) Next(ctx context.Context, name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.values[name]++
	return f.values[name], nil
}

func (f *fakeCounterRepo) ByName(ctx context.Context, name string) (*models.SequenceCounter, error) {
	return nil, nil
}

func (f *fakeCounterRepo) ByID(ctx context.Context, id uint) (*models.SequenceCounter, error) {
	return nil, nil
}

func (f *fakeCounterRepo) Save(ctx context.Context, counter *models.SequenceCounter) error {
	return nil
}

func (f *fakeCounterRepo) SaveBatch(ctx context.Context, counters []*models.SequenceCounter) error {
	return nil
}

func (f *fakeCounterRepo) ByFilter(ctx context.Context, filter models.SequenceCounterFilter, orderBy string, limit, offset int) ([]*models.SequenceCounter, error) {
	return nil, nil
}

func (f *fakeCounterRepo) Count(ctx context.Context, filter models.SequenceCounterFilter) (int64, error) {
	return 0, nil
}

func (f *fakeCounterRepo) Exists(ctx context.Context, filter models.SequenceCounterFilter) (bool, error) {
	return false, nil
}

func TestNextValue(t *testing.T) {
	ctx := context.Background()

	t.Run("PrefixAndPadding", func(t *testing.T) {
		allocator := NewSequenceAllocator(&fakeCounterRepo{values: map[string]int64{}})

		id, err := allocator.NextValue(ctx, "request_id", SequenceOptions{Prefix: "REQ-", PadWidth: 6})
		require.NoError(t, err)
		assert.Equal(t, "REQ-000001", id)

		id, err = allocator.NextValue(ctx, "request_id", SequenceOptions{Prefix: "REQ-", PadWidth: 6})
		require.NoError(t, err)
		assert.Equal(t, "REQ-000002", id)
	})

	t.Run("StartOffset", func(t *testing.T) {
		allocator := NewSequenceAllocator(&fakeCounterRepo{values: map[string]int64{}})

		id, err := allocator.NextValue(ctx, "asset_id", SequenceOptions{Prefix: "AST-", PadWidth: 5, StartOffset: 10001})
		require.NoError(t, err)
		assert.Equal(t, "AST-10001", id)

		id, err = allocator.NextValue(ctx, "asset_id", SequenceOptions{Prefix: "AST-", PadWidth: 5, StartOffset: 10001})
		require.NoError(t, err)
		assert.Equal(t, "AST-10002", id)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		allocator := NewSequenceAllocator(&fakeCounterRepo{err: errors.New("connection refused")})

		_, err := allocator.NextValue(ctx, "request_id", SequenceOptions{Prefix: "REQ-", PadWidth: 6})
		assert.ErrorIs(t, err, ErrSequenceUnavailable)
	})
}
