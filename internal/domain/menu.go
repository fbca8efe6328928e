package domain

import "time"

// MenuStatus describes availability of a menu item.
type MenuStatus string

const (
	MenuStatusForSale MenuStatus = "FOR_SALE"
	MenuStatusSoldOut MenuStatus = "SOLD_OUT"
)

// Valid reports whether s is a known menu status.
func (s MenuStatus) Valid() bool {
	return s == MenuStatusForSale || s == MenuStatusSoldOut
}

// Menu is a sellable item inside a category.
type Menu struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Image       string
	Price       int64
	Order       int
	Status      MenuStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
