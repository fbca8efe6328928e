package domain

// TokenKind separates short-lived access tokens from long-lived refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)
