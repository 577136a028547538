package forms

import "strings"

// Payload is the structured data extracted from one form, ready to be
// validated and sent.
type Payload interface {
	FormName() string
}

type ContactPayload struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"lite_email"`
	Subject string `json:"subject" validate:"min=3"`
	Message string `json:"message" validate:"min=10"`
}

func (ContactPayload) FormName() string { return Contact }

type AdmissionPayload struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	FatherName  string `json:"fatherName" validate:"required"`
	CNIC        string `json:"cnic" validate:"required,cnic"`
	Email       string `json:"email" validate:"required,lite_email"`
	Phone       string `json:"phone" validate:"required,pk_mobile"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02,min_age=16"`
	Gender      string `json:"gender" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Education   string `json:"education" validate:"required"`
	Course      string `json:"course" validate:"required"`
}

func (AdmissionPayload) FormName() string { return Admission }

func extractContact(values map[string]string) Payload {
	return ContactPayload{
		Name:    value(values, "name"),
		Email:   value(values, "email"),
		Subject: value(values, "subject"),
		Message: value(values, "message"),
	}
}

func extractAdmission(values map[string]string) Payload {
	return AdmissionPayload{
		FirstName:   value(values, "firstName"),
		LastName:    value(values, "lastName"),
		FatherName:  value(values, "fatherName"),
		CNIC:        value(values, "cnic"),
		Email:       value(values, "email"),
		Phone:       value(values, "phone"),
		DateOfBirth: value(values, "dateOfBirth"),
		Gender:      value(values, "gender"),
		Address:     value(values, "address"),
		Education:   value(values, "education"),
		Course:      value(values, "course"),
	}
}

func value(values map[string]string, key string) string {
	return strings.TrimSpace(values[key])
}
