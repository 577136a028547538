// Package forms describes the site's forms (field set, backend endpoint,
// message keys) and validates their payloads.
package forms

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Contact   = "contact"
	Admission = "admission"
)

var ErrUnknownForm = errors.New("forms: unknown form")

// Definition configures one form type. A single controller implementation
// is instantiated per Definition.
type Definition struct {
	Name string
	// Path is appended to the API base, e.g. "submit-contact".
	Path string
	// Fields lists the payload keys in display order.
	Fields     []string
	FirstField string

	BusyKey       string
	SuccessKey    string
	FailureKey    string
	IdentifierKey string

	extract func(values map[string]string) Payload
}

// Extract builds a payload from raw field values. Every value is trimmed;
// unknown keys are ignored.
func (d Definition) Extract(values map[string]string) Payload {
	return d.extract(values)
}

// Endpoint joins the API base and the definition path.
func (d Definition) Endpoint(apiBase string) string {
	return strings.TrimRight(apiBase, "/") + "/" + d.Path
}

var definitions = map[string]Definition{
	Contact: {
		Name:          Contact,
		Path:          "submit-contact",
		Fields:        []string{"name", "email", "subject", "message"},
		FirstField:    "name",
		BusyKey:       "form.contact.busy",
		SuccessKey:    "form.contact.success",
		FailureKey:    "form.contact.failure",
		IdentifierKey: "form.contact.identifier",
		extract:       extractContact,
	},
	Admission: {
		Name: Admission,
		Path: "submit-admission",
		Fields: []string{
			"firstName", "lastName", "fatherName", "cnic", "email", "phone",
			"dateOfBirth", "gender", "address", "education", "course",
		},
		FirstField:    "firstName",
		BusyKey:       "form.admission.busy",
		SuccessKey:    "form.admission.success",
		FailureKey:    "form.admission.failure",
		IdentifierKey: "form.admission.identifier",
		extract:       extractAdmission,
	},
}

// Lookup resolves a form by name.
func Lookup(name string) (Definition, error) {
	def, ok := definitions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return def, nil
}

// MustLookup is Lookup for the built-in form names.
func MustLookup(name string) Definition {
	def, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return def
}

// Names lists the known forms.
func Names() []string {
	return []string{Contact, Admission}
}
