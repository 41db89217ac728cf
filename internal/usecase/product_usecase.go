package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// ProductForm is the local product modal as submitted. Numeric fields stay
// text so parsing rules live in one place.
type ProductForm struct {
	ID           string
	Name         string
	Category     string
	Brand        string
	Size         string
	UnitType     string
	PiecesPerBox string
	SftPerBox    string
	Price        string
	Stock        string
	MinStock     string
	ImageURL     string
}

// ProductUseCase lokal mahsulotlar
type ProductUseCase interface {
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	Search(ctx context.Context, term string) ([]entity.Product, error)
	Save(ctx context.Context, form ProductForm) (entity.Product, error)
	Delete(ctx context.Context, id string) error
}

type productUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase yangi ProductUseCase yaratish
func NewProductUseCase(repo repository.ProductRepository) ProductUseCase {
	return &productUseCase{repo: repo, now: time.Now}
}

func (u *productUseCase) List(ctx context.Context) ([]entity.Product, error) {
	return u.repo.List(ctx)
}

func (u *productUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	return u.repo.GetByID(ctx, id)
}

// Search matches name, brand or category case-insensitively.
func (u *productUseCase) Search(ctx context.Context, term string) ([]entity.Product, error) {
	products, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products, nil
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (u *productUseCase) Save(ctx context.Context, form ProductForm) (entity.Product, error) {
	p, err := parseProductForm(form)
	if err != nil {
		return entity.Product{}, err
	}

	now := u.now().UTC()
	if id := strings.TrimSpace(form.ID); id != "" {
		existing, err := u.repo.GetByID(ctx, id)
		if err != nil {
			return entity.Product{}, err
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
	} else {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}

	if err := u.repo.Save(ctx, p); err != nil {
		return entity.Product{}, fmt.Errorf("save product: %w", err)
	}
	logger.Infof("💾 Product saved: %s (%s)", p.Name, p.ID)
	return p, nil
}

func (u *productUseCase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

const requiredFieldsMessage = "Please fill all required fields!"

func parseProductForm(form ProductForm) (entity.Product, error) {
	p := entity.Product{
		Name:     strings.TrimSpace(form.Name),
		Category: strings.TrimSpace(form.Category),
		Brand:    strings.TrimSpace(form.Brand),
		Size:     strings.TrimSpace(form.Size),
		UnitType: strings.TrimSpace(form.UnitType),
		ImageURL: strings.TrimSpace(form.ImageURL),
	}
	if p.Name == "" || p.Category == "" {
		return entity.Product{}, entity.Invalid("name", requiredFieldsMessage)
	}

	price, err := parseDecimal(form.Price)
	if err != nil || price <= 0 {
		return entity.Product{}, entity.Invalid("price", requiredFieldsMessage)
	}
	p.Price = price

	stock, err := strconv.Atoi(strings.TrimSpace(form.Stock))
	if err != nil || stock < 0 {
		return entity.Product{}, entity.Invalid("stock", requiredFieldsMessage)
	}
	p.Stock = stock

	p.PiecesPerBox = positiveIntOr(form.PiecesPerBox, constants.DefaultPiecesPerBox)
	p.MinStock = positiveIntOr(form.MinStock, constants.DefaultMinStock)
	if sft, err := parseDecimal(form.SftPerBox); err == nil && sft > 0 {
		p.SftPerBox = sft
	}
	return p, nil
}

// parseDecimal accepts finite numbers only.
func parseDecimal(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "₹"), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

// positiveIntOr returns fallback for zero or unparsable input.
func positiveIntOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v == 0 {
		return fallback
	}
	return v
}
