package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/infrastructure/storage"
)

func catalogFixture() []entity.CatalogProduct {
	return []entity.CatalogProduct{
		{ID: "p1", Name: "Beige Matt", Category: "Floor", UnitType: "Box", Stock: 10, SellingPrice: 450, GroupID: "g1", GroupName: "Matt"},
		{ID: "p2", Name: "Grey Gloss", Category: "Wall", UnitType: "Box", Stock: 4, SellingPrice: 520, GroupID: "g1", GroupName: "Matt"},
		{ID: "p3", Name: "Slate", Category: "Floor", UnitType: "Piece", Stock: 0, SellingPrice: 80},
	}
}

func newBulkFixture(t *testing.T, remote *stubCatalogRepo) (CatalogUseCase, BulkEditUseCase, *stubNotifier, *stubMirror) {
	t.Helper()
	remote.products = catalogFixture()
	catalog := NewCatalogUseCase(remote, storage.NewMemoryProductCache())
	_, err := catalog.Refresh(context.Background())
	require.NoError(t, err)

	notifier := &stubNotifier{}
	mirror := &stubMirror{}
	bulk := NewBulkEditUseCase(remote, catalog, notifier, mirror, BulkEditOptions{Workers: 2})
	return catalog, bulk, notifier, mirror
}

func TestBulkApply_RequiresActiveModeAndSelection(t *testing.T) {
	_, bulk, _, _ := newBulkFixture(t, &stubCatalogRepo{})

	var state entity.BulkEditState
	_, err := bulk.Apply(context.Background(), &state)
	assert.ErrorIs(t, err, entity.ErrBulkInactive)

	state.Choose(entity.FieldCategory, "Wall")
	_, err = bulk.Apply(context.Background(), &state)
	assert.ErrorIs(t, err, entity.ErrNoSelection)
	assert.True(t, state.Active)
}

func TestBulkApply_CategoryUsesSingleCall(t *testing.T) {
	remote := &stubCatalogRepo{bulkCount: 2}
	catalog, bulk, notifier, mirror := newBulkFixture(t, remote)

	var state entity.BulkEditState
	state.Choose(entity.FieldCategory, "Outdoor")
	state.Toggle("p1")
	state.Toggle("p3")

	res, err := bulk.Apply(context.Background(), &state)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.bulkCalls)
	assert.Equal(t, 2, res.Updated)
	assert.Empty(t, res.Failed)
	assert.False(t, state.Active, "full success cancels the mode")

	p1, _ := catalog.Get("p1")
	assert.Equal(t, "Outdoor", p1.Category)
	p2, _ := catalog.Get("p2")
	assert.Equal(t, "Wall", p2.Category)

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "Category")
	require.Len(t, mirror.published, 1)
}

func TestBulkApply_BulkFailureRollsBackAndKeepsState(t *testing.T) {
	remote := &stubCatalogRepo{bulkErr: errors.New("Sheet is busy")}
	catalog, bulk, notifier, _ := newBulkFixture(t, remote)

	var state entity.BulkEditState
	state.Choose(entity.FieldUnitType, "Sqft")
	state.Toggle("p1")
	state.Toggle("p2")

	res, err := bulk.Apply(context.Background(), &state)
	require.Error(t, err)
	assert.Len(t, res.Failed, 2)
	assert.True(t, state.Active)
	assert.Equal(t, []string{"p1", "p2"}, state.Selected)

	p1, _ := catalog.Get("p1")
	assert.Equal(t, "Box", p1.UnitType, "optimistic change is rolled back")
	assert.Empty(t, notifier.texts)
}

func TestBulkApply_PerProductPartialFailure(t *testing.T) {
	remote := &stubCatalogRepo{failIDs: map[string]bool{"p2": true}}
	catalog, bulk, notifier, _ := newBulkFixture(t, remote)

	var state entity.BulkEditState
	state.Choose(entity.FieldStock, "25")
	state.Toggle("p1")
	state.Toggle("p2")
	state.Toggle("p3")

	res, err := bulk.Apply(context.Background(), &state)
	require.NoError(t, err)
	assert.True(t, res.Partial())
	assert.Equal(t, 2, res.Updated)
	assert.Contains(t, res.Failed, "p2")

	assert.True(t, state.Active)
	assert.Equal(t, []string{"p2"}, state.Selected, "only failed products stay selected")

	p1, _ := catalog.Get("p1")
	assert.Equal(t, entity.Number(25), p1.Stock)
	p2, _ := catalog.Get("p2")
	assert.Equal(t, entity.Number(4), p2.Stock, "failed product is rolled back")

	updated := append([]string(nil), remote.updated...)
	sort.Strings(updated)
	assert.Equal(t, []string{"p1", "p3"}, updated)
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "1 product(s) failed")
}

func TestBulkApply_PerProductTotalFailure(t *testing.T) {
	remote := &stubCatalogRepo{failIDs: map[string]bool{"p1": true}}
	_, bulk, _, mirror := newBulkFixture(t, remote)

	var state entity.BulkEditState
	state.Choose(entity.FieldBrand, "Somany")
	state.Toggle("p1")

	_, err := bulk.Apply(context.Background(), &state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row locked")
	assert.True(t, state.Active)
	assert.Empty(t, mirror.published)
}

func TestBulkApply_RejectsInvalidValue(t *testing.T) {
	_, bulk, _, _ := newBulkFixture(t, &stubCatalogRepo{})

	var state entity.BulkEditState
	state.Choose(entity.FieldSellingPrice, "free")
	state.Toggle("p1")

	_, err := bulk.Apply(context.Background(), &state)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestCatalogWarmAndGroups(t *testing.T) {
	cache := storage.NewMemoryProductCache()
	require.NoError(t, cache.Store(context.Background(), constants.ProductCacheKey, catalogFixture()))

	catalog := NewCatalogUseCase(&stubCatalogRepo{}, cache)
	require.NoError(t, catalog.Warm(context.Background()))
	assert.Len(t, catalog.List(), 3)

	groups := catalog.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Matt", groups[0].Name)
	assert.Equal(t, 2, groups[0].Count)
	assert.InDelta(t, 14, groups[0].TotalStock, 0.001)
	assert.Equal(t, "Slate", groups[1].Name)

	assert.Len(t, catalog.GroupProducts("g1"), 2)
}

func TestCatalogApplyPersistsToCache(t *testing.T) {
	cache := storage.NewMemoryProductCache()
	remote := &stubCatalogRepo{products: catalogFixture()}
	catalog := NewCatalogUseCase(remote, cache)
	_, err := catalog.Refresh(context.Background())
	require.NoError(t, err)

	prev, err := catalog.Apply(context.Background(), []string{"p1", "missing"}, entity.FieldSize, "600x600")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": ""}, prev)

	stored, err := cache.Load(context.Background(), constants.ProductCacheKey)
	require.NoError(t, err)
	assert.Equal(t, "600x600", stored[0].Size)

	require.NoError(t, catalog.Restore(context.Background(), entity.FieldSize, "600x600", prev))
	p1, _ := catalog.Get("p1")
	assert.Empty(t, p1.Size)
}

func TestCatalogRefreshFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	cache := storage.NewMemoryProductCache()
	remote := &stubCatalogRepo{products: catalogFixture()}
	catalog := NewCatalogUseCase(remote, cache)
	_, err := catalog.Refresh(ctx)
	require.NoError(t, err)

	remote.getErr = errors.New("Failed to load products")
	_, err = catalog.Refresh(ctx)
	require.Error(t, err)

	assert.Len(t, catalog.List(), 3)
	stored, err := cache.Load(ctx, constants.ProductCacheKey)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestCatalogRestoreKeepsLaterChanges(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogUseCase(&stubCatalogRepo{products: catalogFixture()}, storage.NewMemoryProductCache())
	_, err := catalog.Refresh(ctx)
	require.NoError(t, err)

	// Another session sets the same product after the first apply.
	first, err := catalog.Apply(ctx, []string{"p1", "p2"}, entity.FieldStock, "12")
	require.NoError(t, err)
	_, err = catalog.Apply(ctx, []string{"p2"}, entity.FieldStock, "30")
	require.NoError(t, err)

	require.NoError(t, catalog.Restore(ctx, entity.FieldStock, "12", first))

	p1, _ := catalog.Get("p1")
	p2, _ := catalog.Get("p2")
	assert.Equal(t, first["p1"], p1.FieldValue(entity.FieldStock))
	assert.Equal(t, "30", p2.FieldValue(entity.FieldStock))
}

func TestUpdatePool_StaggersAndCollectsFailures(t *testing.T) {
	pool := newUpdatePool(3, 5*time.Millisecond)
	start := time.Now()
	failed := pool.run(context.Background(), []string{"a", "b", "c", "d"}, func(ctx context.Context, id string) error {
		if id == "c" {
			return errors.New("boom")
		}
		return nil
	})
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	require.Len(t, failed, 1)
	assert.EqualError(t, failed["c"], "boom")
}

func TestUpdatePool_CancelledContextFailsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := newUpdatePool(1, time.Second)
	failed := pool.run(ctx, []string{"a", "b"}, func(ctx context.Context, id string) error { return nil })
	assert.ErrorIs(t, failed["b"], context.Canceled)
}
