package domain

import "time"

// Category groups menus; Order is the 1-based display position.
type Category struct {
	ID        string
	Name      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
