package constants

// Remote API
const (
	// DefaultRemoteTimeoutSeconds per-request timeout for the Apps Script API
	DefaultRemoteTimeoutSeconds = 20

	// MaxRemoteResponseBytes upper bound for a decoded response body
	MaxRemoteResponseBytes = 25 << 20
)

// Sessions
const (
	// DefaultSessionTTLHours web session lifetime
	DefaultSessionTTLHours = 24

	// SessionCookieName holds the signed session token
	SessionCookieName = "inventory_session"

	// FlashCookieName carries one toast across a redirect
	FlashCookieName = "inventory_flash"
)

// Bulk edit
const (
	DefaultBulkEditWorkers   = 2
	DefaultBulkEditStaggerMS = 250
)

// Local products and sales
const (
	// DefaultMinStock applied when a product form leaves it empty
	DefaultMinStock = 5

	// DefaultPiecesPerBox applied when a product form leaves it empty
	DefaultPiecesPerBox = 1

	// RecentSalesLimit number of sales shown on the dashboard
	RecentSalesLimit = 10

	// HealthyStockThreshold brand product badges are green above this
	HealthyStockThreshold = 10

	// ProductCacheKey storage key of the remote product cache
	ProductCacheKey = "inventory_products_cache"

	// PlaceholderImageURL used when a product has no image
	PlaceholderImageURL = "https://via.placeholder.com/300x200?text="
)

// Navigation
const (
	// MaxNavigationHistory entries kept for the back button
	MaxNavigationHistory = 10
)

// Upload limits
const (
	// MaxBackupUploadSize maximum accepted backup file (bytes)
	MaxBackupUploadSize = 10 * 1024 * 1024
)
