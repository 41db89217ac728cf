package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
)

type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]entity.Product // key: product ID
	order    []string                  // insertion order, used for listing
}

// NewMemoryProductRepository creates an in-memory local product store.
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]entity.Product),
	}
}

func (m *memoryProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, exists := m.products[id]
	if !exists {
		return nil, fmt.Errorf("product %s: %w", id, entity.ErrNotFound)
	}
	return &product, nil
}

func (m *memoryProductRepository) Save(ctx context.Context, product entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[product.ID]; !exists {
		m.order = append(m.order, product.ID)
	}
	m.products[product.ID] = product
	return nil
}

func (m *memoryProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[id]; !exists {
		return nil
	}
	delete(m.products, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryProductRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make(map[string]entity.Product, len(products))
	m.order = m.order[:0]
	for _, p := range products {
		if _, dup := m.products[p.ID]; !dup {
			m.order = append(m.order, p.ID)
		}
		m.products[p.ID] = p
	}
	return nil
}

func (m *memoryProductRepository) AdjustStock(ctx context.Context, id string, delta int, at time.Time) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, exists := m.products[id]
	if !exists {
		return nil, fmt.Errorf("product %s: %w", id, entity.ErrNotFound)
	}
	if product.Stock+delta < 0 {
		return &product, entity.ErrInsufficientStock
	}
	product.Stock += delta
	product.UpdatedAt = at
	m.products[id] = product
	return &product, nil
}

type memorySaleRepository struct {
	mu    sync.RWMutex
	sales []entity.Sale
}

// NewMemorySaleRepository creates an in-memory sales ledger.
func NewMemorySaleRepository() repository.SaleRepository {
	return &memorySaleRepository{}
}

func (m *memorySaleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Sale, len(m.sales))
	copy(out, m.sales)
	return out, nil
}

// Add puts the sale at the front of the ledger.
func (m *memorySaleRepository) Add(ctx context.Context, sale entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sales = append([]entity.Sale{sale}, m.sales...)
	return nil
}

func (m *memorySaleRepository) ReplaceAll(ctx context.Context, sales []entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sales = make([]entity.Sale, len(sales))
	copy(m.sales, sales)
	sort.SliceStable(m.sales, func(i, j int) bool { return m.sales[i].Date.After(m.sales[j].Date) })
	return nil
}

type memoryProductCache struct {
	mu   sync.RWMutex
	data map[string][]entity.CatalogProduct
}

// NewMemoryProductCache keeps the remote product cache for the process lifetime.
func NewMemoryProductCache() repository.ProductCache {
	return &memoryProductCache{data: make(map[string][]entity.CatalogProduct)}
}

func (m *memoryProductCache) Load(ctx context.Context, key string) ([]entity.CatalogProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.data[key]
	out := make([]entity.CatalogProduct, len(src))
	copy(out, src)
	return out, nil
}

func (m *memoryProductCache) Store(ctx context.Context, key string, products []entity.CatalogProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]entity.CatalogProduct, len(products))
	copy(cp, products)
	m.data[key] = cp
	return nil
}
