package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failures the API can report.
type Kind string

const (
	KindInvalidNicknameFormat Kind = "InvalidNicknameFormat"
	KindInvalidPasswordFormat Kind = "InvalidPasswordFormat"
	KindInvalidDataFormat     Kind = "InvalidDataFormat"
	KindDuplicatedNickname    Kind = "DuplicatedNickname"
	KindNotFoundNickname      Kind = "NotFoundNickname"
	KindUserNotFound          Kind = "UserNotFound"
	KindInvalidPassword       Kind = "InvalidPassword"
	KindNotOwner              Kind = "NotOwner"
	KindNotCustomer           Kind = "NotCustomer"
	KindCategoryNotFound      Kind = "CategoryNotFound"
	KindMenuNotFound          Kind = "MenuNotFound"
	KindOrderNotFound         Kind = "OrderNotFound"
	KindInvalidMenuPrice      Kind = "InvalidMenuPrice"
	KindInvalidOrderStatus    Kind = "InvalidOrderStatus"
	KindTokenExpired          Kind = "TokenExpired"
	KindTokenInvalid          Kind = "TokenInvalid"
	KindUnauthenticated       Kind = "Unauthenticated"
	KindRouteNotFound         Kind = "RouteNotFound"
	KindInternal              Kind = "Internal"
)

type descriptor struct {
	status  int
	message string
}

// catalog is the only place a kind is bound to a status and message.
var catalog = map[Kind]descriptor{
	KindInvalidNicknameFormat: {http.StatusBadRequest, "nickname format is invalid"},
	KindInvalidPasswordFormat: {http.StatusBadRequest, "password format is invalid"},
	KindInvalidDataFormat:     {http.StatusBadRequest, "request data format is invalid"},
	KindDuplicatedNickname:    {http.StatusConflict, "nickname is already registered"},
	KindNotFoundNickname:      {http.StatusUnauthorized, "nickname does not exist"},
	KindUserNotFound:          {http.StatusUnauthorized, "token user does not exist"},
	KindInvalidPassword:       {http.StatusUnauthorized, "password does not match"},
	KindNotOwner:              {http.StatusForbidden, "only owners can use this API"},
	KindNotCustomer:           {http.StatusUnauthorized, "only customers can use this API"},
	KindCategoryNotFound:      {http.StatusNotFound, "category does not exist"},
	KindMenuNotFound:          {http.StatusNotFound, "menu does not exist"},
	KindOrderNotFound:         {http.StatusNotFound, "order does not exist"},
	KindInvalidMenuPrice:      {http.StatusBadRequest, "menu price cannot be below zero"},
	KindInvalidOrderStatus:    {http.StatusBadRequest, "order status is invalid"},
	KindTokenExpired:          {http.StatusUnauthorized, "token has expired"},
	KindTokenInvalid:          {http.StatusUnauthorized, "token has been tampered with"},
	KindUnauthenticated:       {http.StatusUnauthorized, "sign-in is required"},
	KindRouteNotFound:         {http.StatusNotFound, "route does not exist"},
	KindInternal:              {http.StatusInternalServerError, "internal server error"},
}

// Kinds returns every known kind.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	return kinds
}

// Status returns the HTTP status bound to the kind; unknown kinds map to 500.
func (k Kind) Status() int {
	if d, ok := catalog[k]; ok {
		return d.status
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message bound to the kind.
func (k Kind) Message() string {
	if d, ok := catalog[k]; ok {
		return d.message
	}
	return catalog[KindInternal].message
}

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same kind, so sentinel comparisons work
// with errors.Is(err, errorutil.New(kind)).
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// New constructs a DomainError of the given kind.
func New(kind Kind) *DomainError {
	if _, ok := catalog[kind]; !ok {
		kind = KindInternal
	}
	return &DomainError{Kind: kind, Message: kind.Message(), HTTPStatus: kind.Status()}
}

// Wrap attaches a server-side cause. The cause is never rendered to clients.
func Wrap(kind Kind, err error) *DomainError {
	de := New(kind)
	de.Err = err
	return de
}

// WithDetails returns a copy carrying client-safe details such as field names.
func (e *DomainError) WithDetails(details map[string]any) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewInternalError wraps an unexpected failure as Internal.
func NewInternalError(err error) error {
	return Wrap(KindInternal, err)
}

// ToDomainError converts generic errors to DomainError. Anything outside the
// taxonomy becomes Internal with the original error kept as the cause.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return Wrap(KindInternal, err)
}

// KindOf reports the kind of err, or Internal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Kind
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Kind == kind
}

// MapError converts generic errors to the taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
