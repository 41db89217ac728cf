package entity

import "time"

// Page identifies a top-level screen.
type Page string

const (
	PageDashboard     Page = "dashboard"
	PageAllProducts   Page = "allProducts"
	PageProductGroups Page = "productGroups"
	PageGroupDetail   Page = "groupDetail"
	PageCustomers     Page = "customers"
	PageBrands        Page = "brands"
)

// HistoryEntry is one visited page.
type HistoryEntry struct {
	Page      Page
	Timestamp time.Time
}

// PageParams carries optional page arguments.
type PageParams struct {
	GroupID   string
	GroupName string
}
