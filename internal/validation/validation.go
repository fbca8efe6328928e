package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// notcontainsfold=Field fails when the value contains the other field's
	// value, ignoring case.
	_ = validate.RegisterValidation("notcontainsfold", func(fl validator.FieldLevel) bool {
		other, _, _, ok := fl.GetStructFieldOK2()
		if !ok || other.Kind() != reflect.String || other.String() == "" {
			return true
		}
		return !strings.Contains(strings.ToLower(fl.Field().String()), strings.ToLower(other.String()))
	})
}

var messages = map[string]string{
	"required":        "is required",
	"min":             "is too short",
	"max":             "is too long",
	"alphanum":        "must contain only letters and digits",
	"oneof":           "is not an allowed value",
	"gt":              "must be greater than %s",
	"lte":             "must be at most %s",
	"uuid":            "must be a valid identifier",
	"notcontainsfold": "must not contain the nickname",
}

// FieldMessages renders validation failures keyed by JSON field name.
func FieldMessages(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]any, len(verrs))
	for _, e := range verrs {
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		if strings.Contains(msg, "%s") {
			msg = strings.Replace(msg, "%s", e.Param(), 1)
		}
		out[e.Field()] = msg
	}
	return out
}

// Struct validates s and reports any failure as InvalidDataFormat.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorutil.Wrap(errorutil.KindInternal, err)
	}
	return errorutil.New(errorutil.KindInvalidDataFormat).WithDetails(FieldMessages(err))
}

// Var validates a single value against a tag, e.g. "uuid".
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return errorutil.New(errorutil.KindInvalidDataFormat).WithDetails(map[string]any{field: messageFor(tag)})
	}
	return nil
}

func messageFor(tag string) string {
	if msg, ok := messages[strings.SplitN(tag, "=", 2)[0]]; ok && !strings.Contains(msg, "%s") {
		return msg
	}
	return "is invalid"
}
