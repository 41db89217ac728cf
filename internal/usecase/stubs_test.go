package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

type stubBrandRepo struct {
	brands   []entity.Brand
	saved    []entity.Brand
	deleted  []string
	products []entity.BrandProduct
	err      error
}

func (s *stubBrandRepo) GetBrands(ctx context.Context) ([]entity.Brand, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.brands, nil
}
func (s *stubBrandRepo) SaveBrand(ctx context.Context, b entity.Brand) error {
	s.saved = append(s.saved, b)
	return nil
}
func (s *stubBrandRepo) DeleteBrand(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}
func (s *stubBrandRepo) GetBrandProducts(ctx context.Context, id string) ([]entity.BrandProduct, error) {
	return s.products, nil
}

type stubCustomerRepo struct {
	customers []entity.Customer
	saved     []entity.Customer
	txs       []entity.Transaction
}

func (s *stubCustomerRepo) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	return s.customers, nil
}
func (s *stubCustomerRepo) SaveCustomer(ctx context.Context, c entity.Customer) error {
	s.saved = append(s.saved, c)
	return nil
}
func (s *stubCustomerRepo) DeleteCustomer(ctx context.Context, id string) error { return nil }
func (s *stubCustomerRepo) GetCustomerTransactions(ctx context.Context, id string) ([]entity.Transaction, error) {
	return s.txs, nil
}

// stubCatalogRepo fails UpdateProduct for IDs in failIDs and BulkUpdate
// when bulkErr is set.
type stubCatalogRepo struct {
	mu        sync.Mutex
	products  []entity.CatalogProduct
	getErr    error
	bulkErr   error
	bulkCount int
	failIDs   map[string]bool
	bulkCalls int
	updated   []string
}

func (s *stubCatalogRepo) GetProducts(ctx context.Context) ([]entity.CatalogProduct, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.products, nil
}
func (s *stubCatalogRepo) BulkUpdate(ctx context.Context, field entity.BulkField, ids []string, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulkCalls++
	if s.bulkErr != nil {
		return 0, s.bulkErr
	}
	return s.bulkCount, nil
}
func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, id string, field entity.BulkField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[id] {
		return errors.New("row locked")
	}
	s.updated = append(s.updated, id)
	return nil
}

type stubNotifier struct{ texts []string }

func (s *stubNotifier) Notify(ctx context.Context, text string) error {
	s.texts = append(s.texts, text)
	return nil
}

type stubMirror struct{ published [][]entity.CatalogProduct }

func (s *stubMirror) Publish(ctx context.Context, products []entity.CatalogProduct) error {
	s.published = append(s.published, products)
	return nil
}
