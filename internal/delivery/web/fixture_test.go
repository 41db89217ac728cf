package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/infrastructure/storage"
	"github.com/yourusername/tile-inventory/internal/usecase"
)

const testPassword = "correct horse"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRemote stands in for the Apps Script client.
type fakeRemote struct {
	mu        sync.Mutex
	brands    []entity.Brand
	customers []entity.Customer
	txs       []entity.Transaction
	products  []entity.CatalogProduct
	bulkErr   error
	bulkIDs   []string
	bulkValue string
	updated   []string
}

func (f *fakeRemote) GetBrands(ctx context.Context) ([]entity.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Brand(nil), f.brands...), nil
}
func (f *fakeRemote) SaveBrand(ctx context.Context, b entity.Brand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brands = append(f.brands, b)
	return nil
}
func (f *fakeRemote) DeleteBrand(ctx context.Context, id string) error { return nil }
func (f *fakeRemote) GetBrandProducts(ctx context.Context, id string) ([]entity.BrandProduct, error) {
	return []entity.BrandProduct{{Name: "Onyx 60x60", Category: "Floor", Stock: 3, Price: 450}}, nil
}

func (f *fakeRemote) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Customer(nil), f.customers...), nil
}
func (f *fakeRemote) SaveCustomer(ctx context.Context, c entity.Customer) error { return nil }
func (f *fakeRemote) DeleteCustomer(ctx context.Context, id string) error      { return nil }
func (f *fakeRemote) GetCustomerTransactions(ctx context.Context, id string) ([]entity.Transaction, error) {
	return f.txs, nil
}

func (f *fakeRemote) GetProducts(ctx context.Context) ([]entity.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.CatalogProduct(nil), f.products...), nil
}
func (f *fakeRemote) BulkUpdate(ctx context.Context, field entity.BulkField, ids []string, value string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	f.bulkIDs = append([]string(nil), ids...)
	f.bulkValue = value
	return len(ids), nil
}
func (f *fakeRemote) UpdateProduct(ctx context.Context, id string, field entity.BulkField, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	return nil
}

type fixture struct {
	t      *testing.T
	remote *fakeRemote
	deps   Deps
	server *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	remote := &fakeRemote{
		brands: []entity.Brand{{BrandID: "b1", BrandName: "Kajaria", ManufacturerID: "KJ-01", ProductCount: 12}},
		customers: []entity.Customer{
			{CustomerID: "c1", CustomerName: "Sharma Builders", CustomerType: entity.CustomerBusiness, PhoneNumber: "98765"},
		},
		products: []entity.CatalogProduct{
			{ID: "p1", Name: "Onyx", Category: "Floor", UnitType: "box", Stock: 20, SellingPrice: 450},
			{ID: "p2", Name: "Marble", Category: "Wall", UnitType: "box", Stock: 0, SellingPrice: 300},
		},
	}
	catalog := usecase.NewCatalogUseCase(remote, storage.NewMemoryProductCache())
	products := storage.NewMemoryProductRepository()
	sales := storage.NewMemorySaleRepository()
	deps := Deps{
		Brands:    usecase.NewBrandUseCase(remote),
		Customers: usecase.NewCustomerUseCase(remote),
		Catalog:   catalog,
		BulkEdit:  usecase.NewBulkEditUseCase(remote, catalog, nil, nil, usecase.BulkEditOptions{Workers: 2}),
		Products:  usecase.NewProductUseCase(products),
		Sales:     usecase.NewSalesUseCase(products, sales),
		Backup:    usecase.NewBackupUseCase(products, sales),
	}
	srv, err := NewServer(deps, Options{
		AdminPassword: testPassword,
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		SessionTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &fixture{t: t, remote: remote, deps: deps, server: srv}
}

// browser keeps cookies between requests like a real client.
type browser struct {
	f       *fixture
	cookies map[string]*http.Cookie
}

func (f *fixture) browser() *browser {
	return &browser{f: f, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.f.server.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

func (b *browser) login() *browser {
	b.f.t.Helper()
	rec := b.post("/login", url.Values{"password": {testPassword}})
	if rec.Code != http.StatusSeeOther {
		b.f.t.Fatalf("login status = %d, want 303", rec.Code)
	}
	return b
}
