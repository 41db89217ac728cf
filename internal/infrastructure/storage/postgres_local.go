package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MigrateLocal creates the local products and sales tables.
func MigrateLocal(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Product{}, &entity.Sale{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

type gormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository stores local products in postgres.
func NewGormProductRepository(db *gorm.DB) repository.ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %s: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormProductRepository) Save(ctx context.Context, product entity.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&product).Error
}

func (r *gormProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *gormProductRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, 200).Error
	})
}

// AdjustStock applies the change with a conditional update so concurrent
// writers cannot drive stock below zero.
func (r *gormProductRepository) AdjustStock(ctx context.Context, id string, delta int, at time.Time) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Product{}).
			Where("id = ? AND stock + ? >= 0", id, delta).
			Updates(map[string]any{"stock": gorm.Expr("stock + ?", delta), "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		err := tx.First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, entity.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return entity.ErrInsufficientStock
		}
		return nil
	})
	if err != nil && !errors.Is(err, entity.ErrInsufficientStock) {
		return nil, err
	}
	return &p, err
}

type gormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository stores the local sales ledger in postgres.
func NewGormSaleRepository(db *gorm.DB) repository.SaleRepository {
	return &gormSaleRepository{db: db}
}

func (r *gormSaleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	var out []entity.Sale
	if err := r.db.WithContext(ctx).Order("date desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormSaleRepository) Add(ctx context.Context, sale entity.Sale) error {
	return r.db.WithContext(ctx).Create(&sale).Error
}

func (r *gormSaleRepository) ReplaceAll(ctx context.Context, sales []entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Sale{}).Error; err != nil {
			return err
		}
		if len(sales) == 0 {
			return nil
		}
		return tx.CreateInBatches(sales, 200).Error
	})
}
