package submission

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
)

type Outcome int

const (
	Success Outcome = iota
	ValidationError
	NetworkError
	ServerError
)

var outcomeName = map[Outcome]string{
	Success:         "success",
	ValidationError: "validation_error",
	NetworkError:    "network_error",
	ServerError:     "server_error",
}

func (o Outcome) String() string {
	if name, ok := outcomeName[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for k, v := range outcomeName {
		if v == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Request is one submission attempt.
type Request struct {
	Form     forms.Definition
	Endpoint string
	Payload  forms.Payload
	// Zero uses the client default.
	Timeout time.Duration
	// Zero value uses the client default locale.
	Messages messages.Messages
}

// Result is what the user is told. Err carries the underlying cause for
// logs and is never shown.
type Result struct {
	Outcome    Outcome            `json:"outcome"`
	Message    string             `json:"message"`
	Identifier string             `json:"identifier,omitempty"`
	Violations []forms.FieldError `json:"violations,omitempty"`
	Status     int                `json:"status,omitempty"`
	Err        error              `json:"-"`
}

func (r Result) OK() bool {
	return r.Outcome == Success
}

// Invalid builds the ValidationError result for violations.
func Invalid(violations []forms.FieldError) Result {
	return Result{
		Outcome:    ValidationError,
		Message:    forms.Messages(violations),
		Violations: violations,
	}
}

// response is the backend body. Fields are raw so that loosely typed
// values (numeric ids, "1" for success) are still understood.
type response struct {
	Success           json.RawMessage `json:"success"`
	Message           json.RawMessage `json:"message"`
	Error             json.RawMessage `json:"error"`
	SubmissionID      json.RawMessage `json:"submission_id"`
	ApplicationNumber json.RawMessage `json:"application_number"`
}

func (r response) succeeded() bool {
	return truthy(r.Success)
}

func (r response) identifier() string {
	if id := text(r.SubmissionID); id != "" {
		return id
	}
	return text(r.ApplicationNumber)
}

// truthy follows loose boolean rules: false, 0, "", null and absent are false.
func truthy(raw json.RawMessage) bool {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}

	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// text renders strings and numbers; anything else is "".
func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
