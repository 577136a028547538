package forms

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
)

// FieldError is one violated rule. Message is already localized.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations are reported stage by stage, then in field order.
var ruleStage = map[string]int{
	"required":   0,
	"min":        1,
	"lite_email": 2,
	"cnic":       3,
	"pk_mobile":  4,
	"datetime":   5,
	"min_age":    5,
}

var ruleMessageKey = map[string]string{
	"lite_email": "validation.email",
	"cnic":       "validation.cnic",
	"pk_mobile":  "validation.phone",
	"datetime":   "validation.date",
	"min_age":    "validation.age",
}

type Validator struct {
	validate *validator.Validate
	messages messages.Messages
}

type ValidatorOption func(*validatorOptions)

type validatorOptions struct {
	now      func() time.Time
	messages messages.Messages
}

// WithClock replaces time.Now for the age rule.
func WithClock(now func() time.Time) ValidatorOption {
	return func(o *validatorOptions) {
		o.now = now
	}
}

func WithMessages(m messages.Messages) ValidatorOption {
	return func(o *validatorOptions) {
		o.messages = m
	}
}

func NewValidator(options ...ValidatorOption) *Validator {
	opts := validatorOptions{now: time.Now}
	for _, option := range options {
		option(&opts)
	}
	if opts.messages == (messages.Messages{}) {
		opts.messages = messages.MustNew().For(messages.DefaultLocale)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := registerRules(v, customRules(opts.now)); err != nil {
		panic(err)
	}

	return &Validator{validate: v, messages: opts.messages}
}

// Validate returns every violation in p, at most one per field. An empty
// result means the payload can be submitted.
func (v *Validator) Validate(p Payload) []FieldError {
	if p == nil {
		return []FieldError{{Rule: "payload", Message: v.messages.Text("validation.invalid", map[string]string{"field": "payload"})}}
	}

	err := v.validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Rule: "payload", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: v.message(fe),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return stage(out[i].Rule) < stage(out[j].Rule)
	})
	return out
}

func (v *Validator) message(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "required":
		return v.messages.Text("validation.required", map[string]string{"field": v.label(fe.Field())})
	case "min":
		key := "validation.min." + fe.Field()
		if v.messages.Has(key) {
			return v.messages.Get(key)
		}
	default:
		if key, ok := ruleMessageKey[tag]; ok {
			return v.messages.Get(key)
		}
	}
	return v.messages.Text("validation.invalid", map[string]string{"field": v.label(fe.Field())})
}

func (v *Validator) label(field string) string {
	key := "field." + field
	if v.messages.Has(key) {
		return v.messages.Get(key)
	}
	return field
}

func stage(rule string) int {
	if s, ok := ruleStage[rule]; ok {
		return s
	}
	return len(ruleStage)
}

// Messages joins the violation messages one per line.
func Messages(errs []FieldError) string {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Message)
	}
	return strings.Join(lines, "\n")
}
