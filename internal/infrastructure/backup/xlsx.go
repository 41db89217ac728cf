package backup

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

const (
	productsSheet = "Products"
	salesSheet    = "Sales"
	infoSheet     = "Info"
)

var productHeaders = []string{
	"ID", "Name", "Category", "Brand", "Size", "Unit Type", "Pieces Per Box",
	"Sft Per Box", "Price", "Stock", "Min Stock", "Image URL", "Created At", "Updated At",
}

var saleHeaders = []string{
	"ID", "Product ID", "Product Name", "Quantity", "Unit Type", "Unit Price", "Total Amount", "Date",
}

func productValues(p entity.Product) []any {
	return []any{
		p.ID, p.Name, p.Category, p.Brand, p.Size, p.UnitType, p.PiecesPerBox,
		p.SftPerBox, p.Price, p.Stock, p.MinStock, p.ImageURL,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	}
}

func saleValues(s entity.Sale) []any {
	return []any{
		s.ID, s.ProductID, s.ProductName, s.Quantity, s.UnitType, s.UnitPrice, s.TotalAmount, formatTime(s.Date),
	}
}

// EncodeXLSX writes products and sales to separate sheets.
func EncodeXLSX(s Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), productsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(infoSheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, productsSheet, 1, toAny(productHeaders)); err != nil {
		return nil, err
	}
	for i, p := range s.Products {
		if err := writeRow(f, productsSheet, i+2, productValues(p)); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, salesSheet, 1, toAny(saleHeaders)); err != nil {
		return nil, err
	}
	for i, sale := range s.Sales {
		if err := writeRow(f, salesSheet, i+2, saleValues(sale)); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, infoSheet, 1, []any{"Export Date", formatTime(s.ExportDate)}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// DecodeXLSX reads a workbook produced by EncodeXLSX. Columns are matched by
// header name so reordered sheets still import.
func DecodeXLSX(data []byte) (Snapshot, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	defer f.Close()

	var s Snapshot
	if idx, _ := f.GetSheetIndex(productsSheet); idx >= 0 {
		rows, err := f.GetRows(productsSheet)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
		}
		s.Products, err = parseProducts(rows)
		if err != nil {
			return Snapshot{}, err
		}
		s.HasProducts = true
	}
	if idx, _ := f.GetSheetIndex(salesSheet); idx >= 0 {
		rows, err := f.GetRows(salesSheet)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
		}
		s.Sales, err = parseSales(rows)
		if err != nil {
			return Snapshot{}, err
		}
		s.HasSales = true
	}
	if idx, _ := f.GetSheetIndex(infoSheet); idx >= 0 {
		if v, err := f.GetCellValue(infoSheet, "B1"); err == nil {
			s.ExportDate = parseTime(v)
		}
	}
	if !s.HasProducts && !s.HasSales {
		return Snapshot{}, fmt.Errorf("%w: no Products or Sales sheet", ErrInvalidBackup)
	}
	return s, nil
}

type rowReader struct {
	index map[string]int
	row   []string
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func (r rowReader) str(name string) string {
	i, ok := r.index[strings.ToLower(name)]
	if !ok || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r rowReader) int(name string) int {
	v, _ := strconv.Atoi(r.str(name))
	return v
}

func (r rowReader) float(name string) float64 {
	v, _ := strconv.ParseFloat(r.str(name), 64)
	return v
}

func parseProducts(rows [][]string) ([]entity.Product, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx := headerIndex(rows[0])
	if _, ok := idx["id"]; !ok {
		return nil, fmt.Errorf("%w: Products sheet has no ID column", ErrInvalidBackup)
	}
	out := make([]entity.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := rowReader{index: idx, row: row}
		if r.str("ID") == "" {
			continue
		}
		out = append(out, entity.Product{
			ID:           r.str("ID"),
			Name:         r.str("Name"),
			Category:     r.str("Category"),
			Brand:        r.str("Brand"),
			Size:         r.str("Size"),
			UnitType:     r.str("Unit Type"),
			PiecesPerBox: r.int("Pieces Per Box"),
			SftPerBox:    r.float("Sft Per Box"),
			Price:        r.float("Price"),
			Stock:        r.int("Stock"),
			MinStock:     r.int("Min Stock"),
			ImageURL:     r.str("Image URL"),
			CreatedAt:    parseTime(r.str("Created At")),
			UpdatedAt:    parseTime(r.str("Updated At")),
		})
	}
	return out, nil
}

func parseSales(rows [][]string) ([]entity.Sale, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx := headerIndex(rows[0])
	if _, ok := idx["id"]; !ok {
		return nil, fmt.Errorf("%w: Sales sheet has no ID column", ErrInvalidBackup)
	}
	out := make([]entity.Sale, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := rowReader{index: idx, row: row}
		if r.str("ID") == "" {
			continue
		}
		out = append(out, entity.Sale{
			ID:          r.str("ID"),
			ProductID:   r.str("Product ID"),
			ProductName: r.str("Product Name"),
			Quantity:    r.int("Quantity"),
			UnitType:    r.str("Unit Type"),
			UnitPrice:   r.float("Unit Price"),
			TotalAmount: r.float("Total Amount"),
			Date:        parseTime(r.str("Date")),
		})
	}
	return out, nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}
