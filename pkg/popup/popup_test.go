package popup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Success(t *testing.T) {
	got := string(Render(View{
		Kind:            KindSuccess,
		Message:         "Your application has been submitted",
		Identifier:      "A-42",
		IdentifierLabel: "Application Number",
		CloseLabel:      "Close",
	}))

	assert.Contains(t, got, `class="form-popup form-popup--success"`)
	assert.Contains(t, got, `role="status"`)
	assert.Contains(t, got, "Your application has been submitted")
	assert.Contains(t, got, `<span class="popup-identifier">Application Number: A-42</span>`)
	assert.Contains(t, got, `aria-label="Close"`)
	assert.NotContains(t, got, "<style>")
}

func TestRender_ErrorDefaultsAndLineBreaks(t *testing.T) {
	got := string(Render(View{Kind: "weird", Message: "first\nsecond"}))

	assert.Contains(t, got, "form-popup--error")
	assert.Contains(t, got, `role="alert"`)
	assert.Contains(t, got, "first<br>second")
	assert.NotContains(t, got, "popup-identifier")
}

func TestRender_SanitizesServerMessage(t *testing.T) {
	got := string(Render(View{
		Kind:    KindError,
		Message: `<strong>dup</strong><script>alert(1)</script><img src=x onerror=alert(1)><em>x</em>`,
	}))

	assert.Contains(t, got, "<strong>dup</strong>")
	assert.Contains(t, got, "<em>x</em>")
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "onerror")
}

func TestRender_EscapesIdentifier(t *testing.T) {
	got := string(Render(View{Kind: KindSuccess, Message: "ok", Identifier: `<b>1</b>`, IdentifierLabel: "ID"}))

	assert.Contains(t, got, "&lt;b&gt;1&lt;/b&gt;")
}

func TestRender_Stateless(t *testing.T) {
	v := View{Kind: KindSuccess, Message: "ok"}

	assert.Equal(t, Render(v), Render(v))
}

func TestPage_IncludesStylesOnce(t *testing.T) {
	got := string(Page(Render(View{Message: "a"}), Render(View{Message: "b"})))

	assert.Equal(t, 1, strings.Count(got, "<style>"))
	assert.Equal(t, 2, strings.Count(got, `class="form-popup `))
}
