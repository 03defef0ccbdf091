package menu

import "github.com/Anas-Ty/restaurant-mvp/internal/orderapi"

// Item is the normalized menu item every other package works with.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
}

// Category keeps items in backend order.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Menu is one fetched menu plus the context it was fetched for.
// Restaurant and Table are only known for QR menus.
type Menu struct {
	Restaurant *orderapi.Restaurant `json:"restaurant,omitempty"`
	Table      *orderapi.Table      `json:"table,omitempty"`
	Categories []Category           `json:"categories"`
}

const (
	AllCategory           = "All"
	UncategorizedCategory = "Uncategorized"
)

// Catalog returns an id index over every item of the menu.
func (m *Menu) Catalog() Catalog {
	if m == nil {
		return Catalog{}
	}
	return NewCatalog(m.Categories)
}

// RestaurantID returns the restaurant id if the backend sent one.
func (m *Menu) RestaurantID() string {
	if m == nil || m.Restaurant == nil {
		return ""
	}
	return m.Restaurant.ID
}

// TableID returns the table id if the backend sent one.
func (m *Menu) TableID() string {
	if m == nil || m.Table == nil {
		return ""
	}
	return m.Table.ID
}
