package entity

import "time"

// CatalogProduct is a product row from the remote sheet. It is the unit the
// bulk editor selects and updates.
type CatalogProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	UnitType     string `json:"unitType"`
	Brand        string `json:"brand"`
	Size         string `json:"size"`
	Stock        Number `json:"stock"`
	SellingPrice Number `json:"sellingPrice"`
	GroupID      string `json:"groupId,omitempty"`
	GroupName    string `json:"groupName,omitempty"`
}

// Product is a locally stored inventory item.
type Product struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	Name         string    `json:"name" gorm:"not null"`
	Category     string    `json:"category"`
	Brand        string    `json:"brand"`
	Size         string    `json:"size"`
	UnitType     string    `json:"unitType"`
	PiecesPerBox int       `json:"piecesPerBox"`
	SftPerBox    float64   `json:"sftPerBox"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	MinStock     int       `json:"minStock"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// StockLevel classifies a product's stock against its minimum.
type StockLevel string

const (
	StockGood StockLevel = "stock-good"
	StockLow  StockLevel = "stock-low"
	StockOut  StockLevel = "stock-out"
)

// Level returns the stock classification of the product.
func (p Product) Level() StockLevel {
	switch {
	case p.Stock > p.MinStock:
		return StockGood
	case p.Stock > 0:
		return StockLow
	default:
		return StockOut
	}
}

// Label is the human text for a stock level.
func (l StockLevel) Label() string {
	switch l {
	case StockGood:
		return "In Stock"
	case StockLow:
		return "Low Stock"
	default:
		return "Out of Stock"
	}
}

// Sale is a recorded local sale.
type Sale struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	ProductID   string    `json:"productId" gorm:"index;size:64"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitType    string    `json:"unitType"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalAmount float64   `json:"totalAmount"`
	Date        time.Time `json:"date" gorm:"index"`
}

// InventorySummary aggregates dashboard counters.
type InventorySummary struct {
	TotalProducts int
	LowStock      int
	OutOfStock    int
	StockValue    float64
	TodaySales    float64
}
