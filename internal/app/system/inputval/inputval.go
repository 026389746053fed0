// internal/app/system/inputval/inputval.go
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/go-playground/validator/v10"
)

// FailedMessage is the top-level error of every validation failure.
const FailedMessage = "Validation failed"

var orgNameRe = regexp.MustCompile(`^[a-zA-Z0-9\s_-]+$`)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their wire name.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "orgname", func(fl validator.FieldLevel) bool {
			return orgNameRe.MatchString(fl.Field().String())
		})
	})
	return v
}

// mustRegister panics when a custom rule cannot be registered, like
// regexp.MustCompile.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
}

// Messages maps "field.tag" (for example "email.required") to the message
// reported when that rule fails. Unlisted rules get a generic message.
type Messages map[string]string

// Struct validates s against its `validate` tags. It returns nil or an
// apperr Validation error carrying one FieldError per failed field, in
// declaration order.
func Struct(s any, msgs Messages) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	details := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		details = append(details, apperr.FieldError{Field: field, Message: msg})
	}
	return apperr.Validation(FailedMessage, details...)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "orgname":
		return OrgNameCharsMessage
	}
	return fe.Field() + " is invalid"
}

// OrgNameCharsMessage is reported for organization names with disallowed characters.
const OrgNameCharsMessage = "Organization name can only contain letters, numbers, spaces, hyphens, and underscores"

// IsValidEmail reports whether s is a syntactically valid address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return instance().Var(s, "email") == nil
}

// IsValidOrgName reports whether s trims to a 2-50 character name of
// letters, digits, spaces, hyphens and underscores.
func IsValidOrgName(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && len(s) <= 50 && orgNameRe.MatchString(s)
}
