package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

// Format is a backup file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ErrInvalidBackup is returned for unreadable backup files.
var ErrInvalidBackup = errors.New("invalid backup file")

// Snapshot is the full local dataset. HasProducts/HasSales tell an importer
// which parts were present in the file.
type Snapshot struct {
	Products    []entity.Product
	Sales       []entity.Sale
	ExportDate  time.Time
	HasProducts bool
	HasSales    bool
}

type jsonSnapshot struct {
	Products   *[]entity.Product `json:"products,omitempty"`
	Sales      *[]entity.Sale    `json:"sales,omitempty"`
	ExportDate time.Time         `json:"exportDate"`
}

// ParseFormat accepts "json" or "xlsx" (case-insensitive).
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown backup format %q", raw)
	}
}

// FileName is the download name for a backup taken at now.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("inventory-backup-%s.%s", now.Format("2006-01-02"), f)
}

// ContentType is the MIME type of the format.
func ContentType(f Format) string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Encode writes the snapshot in the requested format.
func Encode(f Format, s Snapshot) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return EncodeXLSX(s)
	default:
		return EncodeJSON(s)
	}
}

// Decode detects the file type from its signature and parses it.
func Decode(data []byte) (Snapshot, error) {
	// xlsx is a zip archive: PK\x03\x04
	if bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}) {
		return DecodeXLSX(data)
	}
	return DecodeJSON(data)
}

// EncodeJSON produces the indented JSON backup document.
func EncodeJSON(s Snapshot) ([]byte, error) {
	products := s.Products
	if products == nil {
		products = []entity.Product{}
	}
	sales := s.Sales
	if sales == nil {
		sales = []entity.Sale{}
	}
	return json.MarshalIndent(jsonSnapshot{
		Products:   &products,
		Sales:      &sales,
		ExportDate: s.ExportDate.UTC(),
	}, "", "  ")
}

// DecodeJSON parses a JSON backup document.
func DecodeJSON(data []byte) (Snapshot, error) {
	var doc jsonSnapshot
	if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	s := Snapshot{ExportDate: doc.ExportDate}
	if doc.Products != nil {
		s.Products = *doc.Products
		s.HasProducts = true
	}
	if doc.Sales != nil {
		s.Sales = *doc.Sales
		s.HasSales = true
	}
	if !s.HasProducts && !s.HasSales {
		return Snapshot{}, fmt.Errorf("%w: no products or sales", ErrInvalidBackup)
	}
	return s, nil
}
