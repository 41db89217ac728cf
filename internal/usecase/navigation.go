package usecase

import (
	"sync"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

var pageTitles = map[entity.Page]string{
	entity.PageDashboard:     "Dashboard",
	entity.PageAllProducts:   "All Products",
	entity.PageProductGroups: "Product Groups",
	entity.PageCustomers:     "Customers",
	entity.PageBrands:        "Brands",
}

// Navigator tracks the current page and a bounded back history for one
// session. The zero value is not usable; call NewNavigator.
type Navigator struct {
	mu      sync.Mutex
	current entity.Page
	params  entity.PageParams
	history []entity.HistoryEntry
	now     func() time.Time
}

// NewNavigator starts on the dashboard.
func NewNavigator() *Navigator {
	return &Navigator{current: entity.PageDashboard, now: time.Now}
}

// NavigateTo switches page. The previous page is pushed to history unless
// it is the same page. Group parameters are kept until the next visit to
// the group detail page.
func (n *Navigator) NavigateTo(page entity.Page, params entity.PageParams) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigateLocked(page, params)
}

func (n *Navigator) navigateLocked(page entity.Page, params entity.PageParams) {
	if page != n.current {
		n.history = append(n.history, entity.HistoryEntry{Page: n.current, Timestamp: n.now()})
		if len(n.history) > constants.MaxNavigationHistory {
			n.history = n.history[len(n.history)-constants.MaxNavigationHistory:]
		}
	}
	n.current = page
	if page == entity.PageGroupDetail {
		n.params = params
	}
}

// Back pops the last page and navigates to it, or to the dashboard when
// history is empty. Like any navigation it pushes the page being left, so
// repeated Back toggles between the last two pages. Group detail is
// re-entered without parameters.
func (n *Navigator) Back() entity.Page {
	n.mu.Lock()
	defer n.mu.Unlock()

	target := entity.PageDashboard
	if len(n.history) > 0 {
		target = n.history[len(n.history)-1].Page
		n.history = n.history[:len(n.history)-1]
	}
	n.navigateLocked(target, entity.PageParams{})
	return n.current
}

func (n *Navigator) Current() entity.Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Params() entity.PageParams {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.params
}

func (n *Navigator) IsOn(page entity.Page) bool {
	return n.Current() == page
}

// History returns a copy, oldest first.
func (n *Navigator) History() []entity.HistoryEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.HistoryEntry(nil), n.history...)
}

// Title is the heading for page. The group detail page is titled by group
// name; unknown pages fall back to their identifier.
func (n *Navigator) Title(page entity.Page) string {
	if page == entity.PageGroupDetail {
		if name := n.Params().GroupName; name != "" {
			return name
		}
		return "Group Details"
	}
	if t, ok := pageTitles[page]; ok {
		return t
	}
	return string(page)
}

// NavbarVisible is true only on the dashboard.
func (n *Navigator) NavbarVisible() bool {
	return n.IsOn(entity.PageDashboard)
}
