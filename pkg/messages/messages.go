package messages

import "strings"

// Messages is a catalog view bound to one locale.
type Messages struct {
	catalog *Catalog
	locale  string
}

// Locale reports the bound locale code.
func (m Messages) Locale() string {
	return m.locale
}

// Text returns the message for key with {placeholders} replaced from
// params. A missing key yields the key itself so gaps are visible.
func (m Messages) Text(key string, params map[string]string) string {
	if m.catalog == nil {
		return key
	}

	text, ok := m.catalog.lookup(m.locale, key)
	if !ok {
		return key
	}
	if len(params) == 0 {
		return text
	}

	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Get is Text without parameters.
func (m Messages) Get(key string) string {
	return m.Text(key, nil)
}

// Has reports whether key resolves in the bound or default locale.
func (m Messages) Has(key string) bool {
	if m.catalog == nil {
		return false
	}
	_, ok := m.catalog.lookup(m.locale, key)
	return ok
}
