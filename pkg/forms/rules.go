package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the HTML date input format used for dateOfBirth.
const DateLayout = "2006-01-02"

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cnicRegex  = regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`)
	// Same shape the phone mask produces: +92-3XX-XXXXXXX
	phoneRegex = regexp.MustCompile(`^\+92-3\d{2}-\d{7}$`)
)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool { return emailRegex.MatchString(s) }

// IsCNIC reports whether s is a CNIC in NNNNN-NNNNNNN-N form.
func IsCNIC(s string) bool { return cnicRegex.MatchString(s) }

// IsPhone reports whether s is a mobile number in +92-3XX-XXXXXXX form.
func IsPhone(s string) bool { return phoneRegex.MatchString(s) }

// Age returns the number of whole years between birth and now.
func Age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// customRules are the tags used on the payload structs beyond validator's
// built-ins.
func customRules(now func() time.Time) map[string]validator.Func {
	return map[string]validator.Func{
		"lite_email": func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		},
		"cnic": func(fl validator.FieldLevel) bool {
			return IsCNIC(fl.Field().String())
		},
		"pk_mobile": func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		},
		"min_age": minAge(now),
	}
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("forms: register rule %q: %w", tag, err)
		}
	}
	return nil
}

// minAge leaves unparseable dates to the datetime rule.
func minAge(now func() time.Time) validator.Func {
	return func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}

		today := now()
		birth, err := time.ParseInLocation(DateLayout, fl.Field().String(), today.Location())
		if err != nil {
			return true
		}
		return Age(birth, today) >= limit
	}
}
