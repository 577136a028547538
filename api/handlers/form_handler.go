package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

// requestView is the View for a form posted over HTTP. It records what the
// controller did so the browser can replay it.
type requestView struct {
	values  map[string]string
	label   string
	enabled bool
	result  submission.Result
	reset   bool
	focus   string
}

func (v *requestView) Values() map[string]string { return v.values }
func (v *requestView) SubmitLabel() string       { return v.label }

func (v *requestView) SetSubmit(enabled bool, label string) {
	v.enabled = enabled
	v.label = label
}

func (v *requestView) Show(result submission.Result) { v.result = result }
func (v *requestView) Reset()                        { v.reset = true }
func (v *requestView) Focus(field string)            { v.focus = field }

type formResponse struct {
	Outcome    submission.Outcome `json:"outcome"`
	Message    string             `json:"message"`
	Identifier string             `json:"identifier,omitempty"`
	Violations []forms.FieldError `json:"violations,omitempty"`
	Reset      bool               `json:"reset"`
	Focus      string             `json:"focus,omitempty"`
	Popup      template.HTML      `json:"popup"`
}

func statusFor(outcome submission.Outcome) int {
	switch outcome {
	case submission.Success:
		return fiber.StatusOK
	case submission.ValidationError:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

// SubmitFormHandler runs the controller for POST /forms/:form. The body is
// JSON or a urlencoded/multipart form.
func SubmitFormHandler(set *FormSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctrl, err := set.Controller(c.Params("form"), set.Locale(c))
		if errors.Is(err, forms.ErrUnknownForm) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}

		values, err := formValues(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
		}

		view := &requestView{values: values, label: c.Get("X-Submit-Label"), enabled: true}
		result, err := ctrl.Bind(view).Submit(c.UserContext())
		if err != nil {
			return err
		}

		return c.Status(statusFor(result.Outcome)).JSON(formResponse{
			Outcome:    result.Outcome,
			Message:    result.Message,
			Identifier: result.Identifier,
			Violations: result.Violations,
			Reset:      view.reset,
			Focus:      view.focus,
			Popup:      ctrl.Popup(view.result),
		})
	}
}

func formValues(c *fiber.Ctx) (map[string]string, error) {
	values := make(map[string]string)

	switch {
	case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON):
		// Numbers are kept verbatim so a CNIC or phone sent unquoted survives.
		dec := json.NewDecoder(bytes.NewReader(c.Body()))
		dec.UseNumber()

		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
			case string:
				values[k] = t
			case json.Number:
				values[k] = t.String()
			default:
				values[k] = fmt.Sprint(t)
			}
		}

	case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm):
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, v := range mf.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}

	default:
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			values[string(key)] = string(value)
		})
	}

	return values, nil
}
