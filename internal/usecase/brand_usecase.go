package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// BrandForm is the add/edit brand form as submitted.
type BrandForm struct {
	BrandID        string
	BrandName      string
	ManufacturerID string
	Description    string
	Country        string
}

// BrandUseCase brand ro'yxati va CRUD
type BrandUseCase interface {
	Load(ctx context.Context) ([]entity.Brand, error)
	List() []entity.Brand
	Filter(text string) []entity.Brand
	Find(brandID string) (entity.Brand, bool)
	Save(ctx context.Context, form BrandForm) error
	Delete(ctx context.Context, brandID string) error
	Products(ctx context.Context, brandID string) ([]entity.BrandProduct, error)
}

type brandUseCase struct {
	repo repository.BrandRepository

	mu     sync.RWMutex
	brands []entity.Brand
}

// NewBrandUseCase yangi BrandUseCase yaratish
func NewBrandUseCase(repo repository.BrandRepository) BrandUseCase {
	return &brandUseCase{repo: repo}
}

// Load refreshes the cached brand list from the remote sheet.
func (u *brandUseCase) Load(ctx context.Context) ([]entity.Brand, error) {
	brands, err := u.repo.GetBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("load brands: %w", err)
	}
	u.mu.Lock()
	u.brands = brands
	u.mu.Unlock()
	logger.Infof("🏷️ Loaded %d brands", len(brands))
	return cloneBrands(brands), nil
}

func (u *brandUseCase) List() []entity.Brand {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return cloneBrands(u.brands)
}

// Filter matches the brand name case-insensitively and the manufacturer ID
// as typed (lowercased search text).
func (u *brandUseCase) Filter(text string) []entity.Brand {
	term := strings.ToLower(strings.TrimSpace(text))
	all := u.List()
	if term == "" {
		return all
	}
	out := make([]entity.Brand, 0, len(all))
	for _, b := range all {
		if strings.Contains(strings.ToLower(b.BrandName), term) ||
			strings.Contains(b.ManufacturerID, term) {
			out = append(out, b)
		}
	}
	return out
}

func (u *brandUseCase) Find(brandID string) (entity.Brand, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, b := range u.brands {
		if b.BrandID == brandID {
			return b, true
		}
	}
	return entity.Brand{}, false
}

func (u *brandUseCase) Save(ctx context.Context, form BrandForm) error {
	brand := entity.Brand{
		BrandID:        strings.TrimSpace(form.BrandID),
		BrandName:      strings.TrimSpace(form.BrandName),
		ManufacturerID: strings.TrimSpace(form.ManufacturerID),
		Description:    strings.TrimSpace(form.Description),
		Country:        strings.TrimSpace(form.Country),
	}
	if brand.BrandName == "" {
		return entity.Invalid("brandName", "Brand name is required!")
	}
	if err := u.repo.SaveBrand(ctx, brand); err != nil {
		return fmt.Errorf("save brand: %w", err)
	}
	if _, err := u.Load(ctx); err != nil {
		logger.Warnf("⚠️ Brand saved but reload failed: %v", err)
	}
	return nil
}

func (u *brandUseCase) Delete(ctx context.Context, brandID string) error {
	if strings.TrimSpace(brandID) == "" {
		return fmt.Errorf("brand: %w", entity.ErrNotFound)
	}
	if err := u.repo.DeleteBrand(ctx, brandID); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if _, err := u.Load(ctx); err != nil {
		logger.Warnf("⚠️ Brand deleted but reload failed: %v", err)
	}
	return nil
}

func (u *brandUseCase) Products(ctx context.Context, brandID string) ([]entity.BrandProduct, error) {
	products, err := u.repo.GetBrandProducts(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("brand products: %w", err)
	}
	return products, nil
}

func cloneBrands(in []entity.Brand) []entity.Brand {
	if in == nil {
		return nil
	}
	out := make([]entity.Brand, len(in))
	copy(out, in)
	return out
}
