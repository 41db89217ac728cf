package web

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

// Remote dates arrive as ISO strings or as sheet-formatted dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// formatDate renders a date as dd/mm/yyyy. Unparsable input is shown as-is
// and empty input as "N/A".
func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("02/01/2006 15:04")
}

func rupees(v any) string {
	return fmt.Sprintf("₹%.2f", toFloat(v))
}

// priceOrNA shows "N/A" for a zero price.
func priceOrNA(v any) string {
	f := toFloat(v)
	if f == 0 {
		return "N/A"
	}
	return fmt.Sprintf("₹%.2f", f)
}

// stockBadge picks the bootstrap badge class for a brand product stock.
func stockBadge(v any) string {
	f := toFloat(v)
	switch {
	case f > constants.HealthyStockThreshold:
		return "bg-success"
	case f > 0:
		return "bg-warning"
	default:
		return "bg-danger"
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func customerIcon(c entity.Customer) string {
	if c.IsBusiness() {
		return "🏢"
	}
	return "👤"
}

func productImage(p entity.Product) string {
	if strings.TrimSpace(p.ImageURL) != "" {
		return p.ImageURL
	}
	return constants.PlaceholderImageURL + url.QueryEscape(p.Name)
}

func number(v any) string {
	f := toFloat(v)
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case entity.Number:
		return n.Float()
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":   formatDate,
		"formatTime":   formatTime,
		"rupees":       rupees,
		"priceOrNA":    priceOrNA,
		"stockBadge":   stockBadge,
		"orDefault":    orDefault,
		"customerIcon": customerIcon,
		"productImage": productImage,
		"number":       number,
		"fieldLabel":   func(f entity.BulkField) string { return f.Label() },
		"add":          func(a, b int) int { return a + b },
		"list":         func(items ...string) []string { return items },
	}
}
