package dto

import "time"

// SignUpRequest payload for new accounts. UserType is accepted as an alias
// of Role for older clients.
type SignUpRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Role     string `json:"role"`
	UserType string `json:"userType"`
}

// RequestedRole returns Role, falling back to UserType.
func (r SignUpRequest) RequestedRole() string {
	if r.Role != "" {
		return r.Role
	}
	return r.UserType
}

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// AuthResponse reports when each issued credential expires.
type AuthResponse struct {
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
