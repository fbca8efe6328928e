package domain

import "time"

// Role differentiates shop owners from customers on shared endpoints.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleCustomer
}

// ParseRole maps a stored or requested role onto the enum. Empty input
// defaults to CUSTOMER; anything else unknown is rejected.
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return RoleCustomer, true
	}
	r := Role(s)
	return r, r.Valid()
}

// User is the credential record owned by user storage.
type User struct {
	ID           string
	Nickname     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
