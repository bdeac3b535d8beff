package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/pkg/database"
)

func newGormTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.OpenGorm("sqlite", filepath.Join(t.TempDir(), "registry.db"), nil)
	require.NoError(t, err)

	store, err := NewGormStore(context.Background(), db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGormStore(t *testing.T) {
	runStoreConformance(t, func(t *testing.T) domain.Store {
		return newGormTestStore(t)
	})
}

func TestGormStoreAssignsIncreasingSeq(t *testing.T) {
	ctx := context.Background()
	store := newGormTestStore(t)

	require.NoError(t, store.Properties().Create(ctx, sampleProperty("prop-1")))
	require.NoError(t, store.Properties().Create(ctx, sampleProperty("prop-2")))

	var rows []propertyModel
	require.NoError(t, store.db.Order("seq").Find(&rows).Error)
	require.Len(t, rows, 2)
	require.Equal(t, int64(1), rows[0].Seq)
	require.Equal(t, int64(2), rows[1].Seq)

	p, err := store.Properties().GetByID(ctx, "prop-1")
	require.NoError(t, err)
	p.City = "Potsdam"
	require.NoError(t, store.Properties().Update(ctx, p))

	var row propertyModel
	require.NoError(t, store.db.Where("id = ?", "prop-1").First(&row).Error)
	require.Equal(t, int64(1), row.Seq)
	require.Equal(t, "Potsdam", row.City)
}

func TestGormStoreRejectsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	store := newGormTestStore(t)

	require.NoError(t, store.Contracts().Create(ctx, sampleContract("contract-1", "apt-1", "tenant-1")))
	require.Error(t, store.Contracts().Create(ctx, sampleContract("contract-1", "apt-1", "tenant-1")))
}
