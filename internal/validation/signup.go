package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// SignUp carries the account fields checked before any user is created.
type SignUp struct {
	Nickname string `json:"nickname" validate:"required,min=3,max=15,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=20,notcontainsfold=Nickname"`
	Role     string `json:"role" validate:"omitempty,oneof=CUSTOMER OWNER"`
}

// ValidateSignUp maps the first failing rule onto the error taxonomy. A
// missing field is a data format problem; a present but malformed
// nickname or password gets its own kind.
func ValidateSignUp(in SignUp) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errorutil.Wrap(errorutil.KindInternal, err)
	}
	for _, e := range verrs {
		if e.Tag() == "required" {
			return errorutil.New(errorutil.KindInvalidDataFormat).WithDetails(FieldMessages(err))
		}
	}

	first := verrs[0]
	details := map[string]any{first.Field(): FieldMessages(validator.ValidationErrors{first})[first.Field()]}
	switch first.StructField() {
	case "Nickname":
		return errorutil.New(errorutil.KindInvalidNicknameFormat).WithDetails(details)
	case "Password":
		return errorutil.New(errorutil.KindInvalidPasswordFormat).WithDetails(details)
	default:
		return errorutil.New(errorutil.KindInvalidDataFormat).WithDetails(details)
	}
}
