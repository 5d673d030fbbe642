package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

// tagPriority orders validation tags so that a missing field is reported
// before a malformed email, and a malformed email before a weak password.
var tagPriority = []string{"required", "useremail", "userpassword"}

// requestValidator wraps go-playground/validator with the service's email
// and password rules registered as tags.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	_ = v.RegisterValidation("useremail", func(fl validator.FieldLevel) bool {
		return utils.ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("userpassword", func(fl validator.FieldLevel) bool {
		return utils.ValidPassword(fl.Field().String())
	})
	return &requestValidator{v: v}
}

// check validates req and returns the message mapped to the highest priority
// failing tag. ok is true when req is valid.
func (rv *requestValidator) check(req any, messages map[string]string) (msg string, ok bool) {
	err := rv.v.Struct(req)
	if err == nil {
		return "", true
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error(), false
	}

	failed := make(map[string]bool, len(ve))
	for _, fe := range ve {
		failed[fe.Tag()] = true
	}
	for _, tag := range tagPriority {
		if failed[tag] {
			return messages[tag], false
		}
	}
	return ve.Error(), false
}
