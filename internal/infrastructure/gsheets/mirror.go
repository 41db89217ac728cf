package gsheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var productHeader = []any{"ID", "Name", "Category", "Unit Type", "Brand", "Size", "Stock", "Selling Price"}

// Mirror overwrites a sheet range with the current product catalog.
type Mirror struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	rangeA1       string
}

// NewMirror builds a mirror from a service-account credentials file. It
// returns nil (and no error) when spreadsheetID is empty.
func NewMirror(ctx context.Context, spreadsheetID, credentialsFile, rangeA1 string, opts ...option.ClientOption) (repository.CatalogMirror, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, nil
	}
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if strings.TrimSpace(rangeA1) == "" {
		rangeA1 = "Products!A1"
	}
	return &Mirror{values: svc.Spreadsheets.Values, spreadsheetID: spreadsheetID, rangeA1: rangeA1}, nil
}

// Publish clears the target sheet and writes a header plus one row per product.
func (m *Mirror) Publish(ctx context.Context, products []entity.CatalogProduct) error {
	sheet := sheetName(m.rangeA1)
	if _, err := m.values.Clear(m.spreadsheetID, sheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}
	vr := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         BuildRows(products),
	}
	_, err := m.values.Update(m.spreadsheetID, m.rangeA1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", m.rangeA1, err)
	}
	return nil
}

// BuildRows renders the catalog as sheet rows, header first.
func BuildRows(products []entity.CatalogProduct) [][]any {
	rows := make([][]any, 0, len(products)+1)
	rows = append(rows, productHeader)
	for _, p := range products {
		rows = append(rows, []any{
			p.ID,
			p.Name,
			p.Category,
			p.UnitType,
			p.Brand,
			p.Size,
			p.Stock.Float(),
			p.SellingPrice.Float(),
		})
	}
	return rows
}

func sheetName(rangeA1 string) string {
	if idx := strings.Index(rangeA1, "!"); idx > 0 {
		return rangeA1[:idx]
	}
	return rangeA1
}
