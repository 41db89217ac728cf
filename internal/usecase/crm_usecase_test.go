package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

func TestBrandFilter_NameAndManufacturer(t *testing.T) {
	repo := &stubBrandRepo{brands: []entity.Brand{
		{BrandID: "b1", BrandName: "Kajaria", ManufacturerID: "mfg-01"},
		{BrandID: "b2", BrandName: "Somany", ManufacturerID: "MFG-02"},
		{BrandID: "b3", BrandName: "Nitco", ManufacturerID: "x9"},
	}}
	u := NewBrandUseCase(repo)
	if _, err := u.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := u.Filter("KAJ"); len(got) != 1 || got[0].BrandID != "b1" {
		t.Fatalf("name filter: unexpected %+v", got)
	}
	// manufacturer IDs match the lowercased text as-is
	if got := u.Filter("mfg"); len(got) != 1 || got[0].BrandID != "b1" {
		t.Fatalf("manufacturer filter: unexpected %+v", got)
	}
	if got := u.Filter("  "); len(got) != 3 {
		t.Fatalf("empty filter should return all, got %d", len(got))
	}
}

func TestBrandSave_RequiresNameAndReloads(t *testing.T) {
	repo := &stubBrandRepo{brands: []entity.Brand{{BrandID: "b1", BrandName: "Kajaria"}}}
	u := NewBrandUseCase(repo)

	err := u.Save(context.Background(), BrandForm{BrandName: "   "})
	var verr *entity.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Brand name is required!" {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("nothing should be saved on validation failure")
	}

	if err := u.Save(context.Background(), BrandForm{BrandName: " Orient ", Country: " India "}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if repo.saved[0].BrandName != "Orient" || repo.saved[0].Country != "India" {
		t.Fatalf("fields should be trimmed: %+v", repo.saved[0])
	}
	if _, ok := u.Find("b1"); !ok {
		t.Fatalf("list should be reloaded after save")
	}
}

func TestBrandLoad_PropagatesError(t *testing.T) {
	u := NewBrandUseCase(&stubBrandRepo{err: errors.New("Failed to load brands")})
	if _, err := u.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCustomerFilter_NamePhoneEmail(t *testing.T) {
	repo := &stubCustomerRepo{customers: []entity.Customer{
		{CustomerID: "c1", CustomerName: "Ravi Traders", PhoneNumber: "98450 11111", Email: "RAVI@example.com"},
		{CustomerID: "c2", CustomerName: "Meena", PhoneNumber: "99000 22222"},
	}}
	u := NewCustomerUseCase(repo)
	if _, err := u.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cases := map[string][]string{
		"ravi":    {"c1"},
		"22222":   {"c2"},
		"example": {"c1"},
		"":        {"c1", "c2"},
	}
	for term, want := range cases {
		got := u.Filter(term)
		if len(got) != len(want) {
			t.Fatalf("Filter(%q) = %d results, want %d", term, len(got), len(want))
		}
		for i := range want {
			if got[i].CustomerID != want[i] {
				t.Fatalf("Filter(%q)[%d] = %s, want %s", term, i, got[i].CustomerID, want[i])
			}
		}
	}
}

func TestCustomerSave_DefaultsTypeAndValidates(t *testing.T) {
	repo := &stubCustomerRepo{}
	u := NewCustomerUseCase(repo)

	if err := u.Save(context.Background(), CustomerForm{}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := u.Save(context.Background(), CustomerForm{CustomerName: "X", CustomerType: "Alien"}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected type validation error, got %v", err)
	}
	if err := u.Save(context.Background(), CustomerForm{CustomerName: "Meena"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if repo.saved[0].CustomerType != entity.CustomerBusiness {
		t.Fatalf("type should default to Business, got %q", repo.saved[0].CustomerType)
	}
}

func TestCustomerInvoicePrefill(t *testing.T) {
	repo := &stubCustomerRepo{customers: []entity.Customer{{CustomerID: "c1", CustomerName: "Ravi Traders"}}}
	u := NewCustomerUseCase(repo)
	_, _ = u.Load(context.Background())

	name, err := u.InvoicePrefill("c1")
	if err != nil || name != "Ravi Traders" {
		t.Fatalf("InvoicePrefill = %q, %v", name, err)
	}
	if _, err := u.InvoicePrefill("missing"); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
