package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/internal/infrastructure/storage"
)

// slowProducts widens the window between reading stock and writing it.
type slowProducts struct {
	repository.ProductRepository
}

func (s slowProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	time.Sleep(2 * time.Millisecond)
	return s.ProductRepository.GetByID(ctx, id)
}

type failingSales struct {
	repository.SaleRepository
}

func (failingSales) Add(ctx context.Context, sale entity.Sale) error {
	return errors.New("disk full")
}

func TestSalesRecord_ConcurrentDoesNotOversell(t *testing.T) {
	ctx := context.Background()
	products := storage.NewMemoryProductRepository()
	sales := storage.NewMemorySaleRepository()
	require.NoError(t, products.Save(ctx, entity.Product{ID: "p1", Name: "Beige", Price: 10, Stock: 1, UnitType: "box"}))
	u := NewSalesUseCase(slowProducts{products}, sales)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := u.Record(ctx, "p1", 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, entity.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	stored, err := sales.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestSalesRecord_FailedSaleRestoresStock(t *testing.T) {
	ctx := context.Background()
	products := storage.NewMemoryProductRepository()
	require.NoError(t, products.Save(ctx, entity.Product{ID: "p1", Name: "Beige", Price: 10, Stock: 4}))
	u := NewSalesUseCase(products, failingSales{storage.NewMemorySaleRepository()})

	_, err := u.Record(ctx, "p1", 3)
	require.Error(t, err)

	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
}
