// Package popup renders the success and error popups shown after a form
// submission. Rendering is stateless; the stylesheet is a package constant
// that a page includes once.
package popup

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// View is everything a popup shows.
type View struct {
	Kind            Kind
	Message         string
	Identifier      string
	IdentifierLabel string
	CloseLabel      string
}

const Styles = `.form-popup{position:fixed;top:20px;right:20px;z-index:10000;max-width:400px;border-radius:10px;box-shadow:0 4px 20px rgba(0,0,0,.3);color:#fff;animation:form-popup-in .3s ease-out;direction:rtl}
.form-popup--success{background:linear-gradient(135deg,#28a745,#20c997)}
.form-popup--error{background:linear-gradient(135deg,#dc3545,#c82333)}
.form-popup .popup-content{display:flex;align-items:center;gap:15px;padding:20px}
.form-popup .popup-icon{font-size:24px;font-weight:bold}
.form-popup .popup-message{flex:1;font-size:16px;line-height:1.5}
.form-popup .popup-identifier{display:block;margin-top:6px;font-weight:bold}
.form-popup .popup-close{background:none;border:none;color:#fff;font-size:20px;cursor:pointer;padding:0;width:30px;height:30px;border-radius:50%}
.form-popup .popup-close:hover{background:rgba(255,255,255,.2)}
@keyframes form-popup-in{from{transform:translateX(100%);opacity:0}to{transform:translateX(0);opacity:1}}`

var fragment = template.Must(template.New("popup").Parse(
	`<div class="form-popup form-popup--{{.Kind}}" role="{{.Role}}">` +
		`<div class="popup-content">` +
		`<div class="popup-icon">{{.Icon}}</div>` +
		`<div class="popup-message">{{.Message}}` +
		`{{if .Identifier}}<span class="popup-identifier">{{.IdentifierLabel}}: {{.Identifier}}</span>{{end}}` +
		`</div>` +
		`<button type="button" class="popup-close" aria-label="{{.CloseLabel}}" onclick="this.closest('.form-popup').remove()">&times;</button>` +
		`</div></div>`,
))

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("br", "strong", "em")
		messagePolicy = policy
	})
	return messagePolicy
}

// SanitizeMessage keeps <br>, <strong> and <em> and escapes the rest.
// Newlines become line breaks.
func SanitizeMessage(raw string) template.HTML {
	cleaned := messageSanitizer().Sanitize(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, "\n", "<br>")
	return template.HTML(cleaned)
}

type fragmentData struct {
	Kind            Kind
	Role            string
	Icon            string
	Message         template.HTML
	Identifier      string
	IdentifierLabel string
	CloseLabel      string
}

// Render returns a self-contained popup fragment for v.
func Render(v View) template.HTML {
	data := fragmentData{
		Kind:            KindError,
		Role:            "alert",
		Icon:            "⚠",
		Message:         SanitizeMessage(v.Message),
		Identifier:      strings.TrimSpace(v.Identifier),
		IdentifierLabel: v.IdentifierLabel,
		CloseLabel:      v.CloseLabel,
	}
	if v.Kind == KindSuccess {
		data.Kind = KindSuccess
		data.Role = "status"
		data.Icon = "✓"
	}
	if data.CloseLabel == "" {
		data.CloseLabel = "close"
	}

	var buf bytes.Buffer
	// data is fully controlled here, execution cannot fail
	_ = fragment.Execute(&buf, data)
	return template.HTML(buf.String())
}

// Page wraps popups with the stylesheet so it appears once per document.
func Page(popups ...template.HTML) template.HTML {
	var b strings.Builder
	b.WriteString("<style>")
	b.WriteString(Styles)
	b.WriteString("</style>")
	for _, p := range popups {
		b.WriteString(string(p))
	}
	return template.HTML(b.String())
}
