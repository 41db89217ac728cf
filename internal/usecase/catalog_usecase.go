package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// ProductGroup aggregates catalog products sharing a group.
type ProductGroup struct {
	ID         string
	Name       string
	Count      int
	TotalStock float64
}

// CatalogUseCase remote mahsulotlar keshi
type CatalogUseCase interface {
	// Warm loads the last persisted snapshot without calling the remote API.
	Warm(ctx context.Context) error
	Refresh(ctx context.Context) ([]entity.CatalogProduct, error)
	List() []entity.CatalogProduct
	Get(productID string) (entity.CatalogProduct, bool)
	Groups() []ProductGroup
	GroupProducts(groupID string) []entity.CatalogProduct
	// Apply sets field on the given products and returns their previous
	// values. Unknown IDs are skipped.
	Apply(ctx context.Context, productIDs []string, field entity.BulkField, value string) (map[string]string, error)
	// Restore puts back previous values on products that still hold the
	// applied value. Products changed since Apply are left alone.
	Restore(ctx context.Context, field entity.BulkField, applied string, previous map[string]string) error
}

type catalogUseCase struct {
	remote repository.CatalogRepository
	cache  repository.ProductCache

	mu       sync.RWMutex
	products []entity.CatalogProduct
}

// NewCatalogUseCase yangi CatalogUseCase yaratish
func NewCatalogUseCase(remote repository.CatalogRepository, cache repository.ProductCache) CatalogUseCase {
	return &catalogUseCase{remote: remote, cache: cache}
}

func (u *catalogUseCase) Warm(ctx context.Context) error {
	products, err := u.cache.Load(ctx, constants.ProductCacheKey)
	if err != nil {
		return fmt.Errorf("load product cache: %w", err)
	}
	u.mu.Lock()
	u.products = products
	u.mu.Unlock()
	logger.Infof("📦 Product cache warmed with %d products", len(products))
	return nil
}

func (u *catalogUseCase) Refresh(ctx context.Context) ([]entity.CatalogProduct, error) {
	products, err := u.remote.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh products: %w", err)
	}
	u.mu.Lock()
	u.products = products
	u.mu.Unlock()
	if err := u.persist(ctx); err != nil {
		logger.Warnf("⚠️ Product cache not persisted: %v", err)
	}
	return u.List(), nil
}

func (u *catalogUseCase) List() []entity.CatalogProduct {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return cloneCatalog(u.products)
}

func (u *catalogUseCase) Get(productID string) (entity.CatalogProduct, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, p := range u.products {
		if p.ID == productID {
			return p, true
		}
	}
	return entity.CatalogProduct{}, false
}

// Groups lists product groups by name. Products without a group ID are
// grouped by their own name.
func (u *catalogUseCase) Groups() []ProductGroup {
	u.mu.RLock()
	defer u.mu.RUnlock()

	index := map[string]int{}
	var groups []ProductGroup
	for _, p := range u.products {
		id, name := groupKey(p)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, ProductGroup{ID: id, Name: name})
		}
		groups[i].Count++
		groups[i].TotalStock += p.Stock.Float()
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return strings.ToLower(groups[a].Name) < strings.ToLower(groups[b].Name)
	})
	return groups
}

func (u *catalogUseCase) GroupProducts(groupID string) []entity.CatalogProduct {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out []entity.CatalogProduct
	for _, p := range u.products {
		if id, _ := groupKey(p); id == groupID {
			out = append(out, p)
		}
	}
	return out
}

func (u *catalogUseCase) Apply(ctx context.Context, productIDs []string, field entity.BulkField, value string) (map[string]string, error) {
	wanted := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}

	previous := make(map[string]string, len(productIDs))
	u.mu.Lock()
	for i := range u.products {
		p := &u.products[i]
		if _, ok := wanted[p.ID]; !ok {
			continue
		}
		old := p.FieldValue(field)
		if err := p.SetField(field, value); err != nil {
			u.restoreLocked(field, value, previous)
			u.mu.Unlock()
			return nil, err
		}
		previous[p.ID] = old
	}
	u.mu.Unlock()

	if err := u.persist(ctx); err != nil {
		logger.Warnf("⚠️ Product cache not persisted: %v", err)
	}
	return previous, nil
}

func (u *catalogUseCase) Restore(ctx context.Context, field entity.BulkField, applied string, previous map[string]string) error {
	if len(previous) == 0 {
		return nil
	}
	u.mu.Lock()
	u.restoreLocked(field, applied, previous)
	u.mu.Unlock()
	return u.persist(ctx)
}

func (u *catalogUseCase) restoreLocked(field entity.BulkField, applied string, previous map[string]string) {
	for i := range u.products {
		p := &u.products[i]
		old, ok := previous[p.ID]
		if !ok {
			continue
		}
		// Compare in the field's own formatting, e.g. "12" against 12.0.
		expect := *p
		if err := expect.SetField(field, applied); err != nil || expect.FieldValue(field) != p.FieldValue(field) {
			logger.Warnf("⚠️ Rollback of %s on %s skipped: changed since apply", field, p.ID)
			continue
		}
		if err := p.SetField(field, old); err != nil {
			logger.Warnf("⚠️ Rollback of %s on %s failed: %v", field, p.ID, err)
		}
	}
}

func (u *catalogUseCase) persist(ctx context.Context) error {
	return u.cache.Store(ctx, constants.ProductCacheKey, u.List())
}

func groupKey(p entity.CatalogProduct) (string, string) {
	if p.GroupID != "" {
		name := p.GroupName
		if name == "" {
			name = p.GroupID
		}
		return p.GroupID, name
	}
	return p.Name, p.Name
}

func cloneCatalog(in []entity.CatalogProduct) []entity.CatalogProduct {
	if in == nil {
		return nil
	}
	out := make([]entity.CatalogProduct, len(in))
	copy(out, in)
	return out
}
