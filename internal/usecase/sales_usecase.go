package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// Quote is the price preview for a pending sale.
type Quote struct {
	Product   entity.Product
	Quantity  int
	UnitPrice float64
	Total     float64
}

// SalesUseCase sotuvlar va dashboard hisoboti
type SalesUseCase interface {
	SaleableProducts(ctx context.Context) ([]entity.Product, error)
	Quote(ctx context.Context, productID string, quantity int) (Quote, error)
	Record(ctx context.Context, productID string, quantity int) (entity.Sale, error)
	Recent(ctx context.Context) ([]entity.Sale, error)
	Summary(ctx context.Context) (entity.InventorySummary, error)
}

type salesUseCase struct {
	mu       sync.Mutex // serializes Record
	products repository.ProductRepository
	sales    repository.SaleRepository
	now      func() time.Time
}

// NewSalesUseCase yangi SalesUseCase yaratish
func NewSalesUseCase(products repository.ProductRepository, sales repository.SaleRepository) SalesUseCase {
	return &salesUseCase{products: products, sales: sales, now: time.Now}
}

// SaleableProducts lists products with stock left.
func (u *salesUseCase) SaleableProducts(ctx context.Context) ([]entity.Product, error) {
	all, err := u.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(all))
	for _, p := range all {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (u *salesUseCase) Quote(ctx context.Context, productID string, quantity int) (Quote, error) {
	if productID == "" || quantity <= 0 {
		return Quote{}, entity.Invalid("quantity", "Please select product and enter quantity!")
	}
	p, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return Quote{}, err
	}
	if quantity > p.Stock {
		return Quote{Product: *p}, fmt.Errorf("%w! Only %d %s available", entity.ErrInsufficientStock, p.Stock, p.UnitType)
	}
	return Quote{
		Product:   *p,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Total:     p.Price * float64(quantity),
	}, nil
}

// Record decrements stock and stores the sale. The stock change is undone
// when the sale cannot be stored.
func (u *salesUseCase) Record(ctx context.Context, productID string, quantity int) (entity.Sale, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	q, err := u.Quote(ctx, productID, quantity)
	if err != nil {
		return entity.Sale{}, err
	}

	now := u.now().UTC()
	product, err := u.products.AdjustStock(ctx, q.Product.ID, -quantity, now)
	if errors.Is(err, entity.ErrInsufficientStock) && product != nil {
		return entity.Sale{}, fmt.Errorf("%w! Only %d %s available", entity.ErrInsufficientStock, product.Stock, product.UnitType)
	}
	if err != nil {
		return entity.Sale{}, fmt.Errorf("update stock: %w", err)
	}

	sale := entity.Sale{
		ID:          uuid.NewString(),
		ProductID:   q.Product.ID,
		ProductName: q.Product.Name,
		Quantity:    q.Quantity,
		UnitType:    q.Product.UnitType,
		UnitPrice:   q.UnitPrice,
		TotalAmount: q.Total,
		Date:        now,
	}
	if err := u.sales.Add(ctx, sale); err != nil {
		if _, rerr := u.products.AdjustStock(ctx, q.Product.ID, quantity, now); rerr != nil {
			logger.Errorf("❌ Stock of %s not restored after failed sale: %v", q.Product.ID, rerr)
		}
		return entity.Sale{}, fmt.Errorf("record sale: %w", err)
	}
	logger.Infof("🧾 Sale recorded: %d %s of %s, total ₹%.2f", quantity, product.UnitType, product.Name, sale.TotalAmount)
	return sale, nil
}

func (u *salesUseCase) Recent(ctx context.Context) ([]entity.Sale, error) {
	sales, err := u.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(sales) > constants.RecentSalesLimit {
		sales = sales[:constants.RecentSalesLimit]
	}
	return sales, nil
}

// Summary computes the dashboard counters. Today is the local calendar day.
func (u *salesUseCase) Summary(ctx context.Context) (entity.InventorySummary, error) {
	products, err := u.products.List(ctx)
	if err != nil {
		return entity.InventorySummary{}, err
	}
	sales, err := u.sales.List(ctx)
	if err != nil {
		return entity.InventorySummary{}, err
	}

	var s entity.InventorySummary
	s.TotalProducts = len(products)
	for _, p := range products {
		switch p.Level() {
		case entity.StockLow:
			s.LowStock++
		case entity.StockOut:
			s.OutOfStock++
		}
		s.StockValue += p.Price * float64(p.Stock)
	}

	y, m, d := u.now().Local().Date()
	for _, sale := range sales {
		sy, sm, sd := sale.Date.Local().Date()
		if sy == y && sm == m && sd == d {
			s.TodaySales += sale.TotalAmount
		}
	}
	return s, nil
}
