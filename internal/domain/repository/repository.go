package repository

import (
	"context"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

// BrandRepository reads and writes brands on the remote sheet.
type BrandRepository interface {
	GetBrands(ctx context.Context) ([]entity.Brand, error)
	SaveBrand(ctx context.Context, brand entity.Brand) error
	DeleteBrand(ctx context.Context, brandID string) error
	GetBrandProducts(ctx context.Context, brandID string) ([]entity.BrandProduct, error)
}

// CustomerRepository reads and writes customers on the remote sheet.
type CustomerRepository interface {
	GetCustomers(ctx context.Context) ([]entity.Customer, error)
	SaveCustomer(ctx context.Context, customer entity.Customer) error
	DeleteCustomer(ctx context.Context, customerID string) error
	GetCustomerTransactions(ctx context.Context, customerID string) ([]entity.Transaction, error)
}

// CatalogRepository is the remote product store used by the bulk editor.
type CatalogRepository interface {
	GetProducts(ctx context.Context) ([]entity.CatalogProduct, error)
	// BulkUpdate sets one field on many products in a single call and
	// returns the count the server reports as updated.
	BulkUpdate(ctx context.Context, field entity.BulkField, productIDs []string, value string) (int, error)
	UpdateProduct(ctx context.Context, productID string, field entity.BulkField, value string) error
}

// ProductCache persists the last known remote product list.
type ProductCache interface {
	Load(ctx context.Context, key string) ([]entity.CatalogProduct, error)
	Store(ctx context.Context, key string, products []entity.CatalogProduct) error
}

// ProductRepository stores local products.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Save(ctx context.Context, product entity.Product) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []entity.Product) error
	// AdjustStock adds delta to the stock and returns the updated product.
	// It fails with entity.ErrInsufficientStock when stock would go negative.
	AdjustStock(ctx context.Context, id string, delta int, at time.Time) (*entity.Product, error)
}

// SaleRepository stores local sales, newest first.
type SaleRepository interface {
	List(ctx context.Context) ([]entity.Sale, error)
	Add(ctx context.Context, sale entity.Sale) error
	ReplaceAll(ctx context.Context, sales []entity.Sale) error
}

// Notifier delivers short operational messages to an admin channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// CatalogMirror publishes a product snapshot to an external spreadsheet.
type CatalogMirror interface {
	Publish(ctx context.Context, products []entity.CatalogProduct) error
}
