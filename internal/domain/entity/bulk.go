package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BulkField names a product attribute the bulk editor can set.
type BulkField string

const (
	FieldCategory     BulkField = "category"
	FieldUnitType     BulkField = "unitType"
	FieldStock        BulkField = "stock"
	FieldSellingPrice BulkField = "sellingPrice"
	FieldBrand        BulkField = "brand"
	FieldSize         BulkField = "size"
)

// BulkFields lists every supported field in menu order.
var BulkFields = []BulkField{FieldCategory, FieldUnitType, FieldStock, FieldSellingPrice, FieldBrand, FieldSize}

// ParseBulkField validates a raw field name.
func ParseBulkField(raw string) (BulkField, error) {
	for _, f := range BulkFields {
		if string(f) == raw {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedField, raw)
}

// HasBulkAction is true for fields the remote API updates in one call.
func (f BulkField) HasBulkAction() bool {
	return f == FieldCategory || f == FieldUnitType
}

// Label is the title used in menus and toasts.
func (f BulkField) Label() string {
	switch f {
	case FieldCategory:
		return "Category"
	case FieldUnitType:
		return "Unit Type"
	case FieldStock:
		return "Stock"
	case FieldSellingPrice:
		return "Selling Price"
	case FieldBrand:
		return "Brand"
	case FieldSize:
		return "Size"
	default:
		return string(f)
	}
}

// BulkEditState is the staged edit of one session.
type BulkEditState struct {
	// Picking is the field whose value menu is open, before a value is chosen.
	Picking  BulkField
	Active   bool
	Field    BulkField
	Value    string
	Selected []string
}

// BulkResult reports the outcome of applying a staged edit.
type BulkResult struct {
	Field   BulkField
	Value   string
	Updated int
	Failed  map[string]error
}

// Partial is true when some but not all products failed.
func (r BulkResult) Partial() bool {
	return len(r.Failed) > 0 && r.Updated > 0
}

// Begin opens the value menu for field. Any staged edit is dropped.
func (s *BulkEditState) Begin(field BulkField) {
	*s = BulkEditState{Picking: field}
}

// Choose stages value for the picked field and starts selection mode.
func (s *BulkEditState) Choose(field BulkField, value string) {
	*s = BulkEditState{Active: true, Field: field, Value: value, Selected: []string{}}
}

// Toggle adds or removes a product from the selection. It is a no-op when
// the mode is inactive.
func (s *BulkEditState) Toggle(productID string) {
	if !s.Active || productID == "" {
		return
	}
	for i, id := range s.Selected {
		if id == productID {
			s.Selected = append(s.Selected[:i], s.Selected[i+1:]...)
			return
		}
	}
	s.Selected = append(s.Selected, productID)
}

// IsSelected reports whether productID is part of the current selection.
func (s *BulkEditState) IsSelected(productID string) bool {
	for _, id := range s.Selected {
		if id == productID {
			return true
		}
	}
	return false
}

// Count is the number of selected products.
func (s *BulkEditState) Count() int {
	return len(s.Selected)
}

// Cancel leaves bulk edit mode.
func (s *BulkEditState) Cancel() {
	*s = BulkEditState{}
}

// NormalizeBulkValue trims and validates a staged value for field.
func NormalizeBulkValue(field BulkField, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch field {
	case FieldStock:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return "", Invalid(string(field), "Stock must be a whole number of 0 or more")
		}
		return strconv.Itoa(n), nil
	case FieldSellingPrice:
		f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return "", Invalid(string(field), "Selling price must be greater than 0")
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case FieldCategory, FieldUnitType, FieldBrand, FieldSize:
		if value == "" {
			return "", Invalid(string(field), field.Label()+" is required")
		}
		return value, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
}

// FieldValue returns the product's current value of field as text.
func (p CatalogProduct) FieldValue(field BulkField) string {
	switch field {
	case FieldCategory:
		return p.Category
	case FieldUnitType:
		return p.UnitType
	case FieldBrand:
		return p.Brand
	case FieldSize:
		return p.Size
	case FieldStock:
		return strconv.FormatFloat(p.Stock.Float(), 'f', -1, 64)
	case FieldSellingPrice:
		return strconv.FormatFloat(p.SellingPrice.Float(), 'f', -1, 64)
	default:
		return ""
	}
}

// SetField assigns a textual value to field.
func (p *CatalogProduct) SetField(field BulkField, value string) error {
	switch field {
	case FieldCategory:
		p.Category = value
	case FieldUnitType:
		p.UnitType = value
	case FieldBrand:
		p.Brand = value
	case FieldSize:
		p.Size = value
	case FieldStock, FieldSellingPrice:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Invalid(string(field), fmt.Sprintf("%s must be a number", field.Label()))
		}
		if field == FieldStock {
			p.Stock = Number(f)
		} else {
			p.SellingPrice = Number(f)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
	return nil
}
