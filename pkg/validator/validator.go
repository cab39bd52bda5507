package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	global  *validator.Validate
	phoneRe = regexp.MustCompile(`^[+]?[1-9][0-9]{0,15}$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", validatePhone)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validatePhone(fl validator.FieldLevel) bool {
	stripped := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(fl.Field().String())
	return phoneRe.MatchString(stripped)
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

// parseValidationErrors reports every violation, not just the first one, so
// the caller can surface the full set at once.
func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(vErrors))
	for _, ve := range vErrors {
		var msg string
		switch ve.Tag() {
		case "required":
			msg = ErrFieldRequired
		case "max":
			msg = ErrFieldExceedsMaxLen
		case "min":
			msg = ErrFieldBelowMinLen
		case "email", "phone", "oneof":
			msg = ErrInvalidFormat
		default:
			msg = ErrUnknownValidation
		}
		msgs = append(msgs, msg+": "+ve.Namespace())
	}
	return errors.New(strings.Join(msgs, "; "))
}
