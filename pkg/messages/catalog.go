// Package messages holds the localized text shown by the forms: busy labels,
// validation messages, submission outcomes and inline field hints.
//
// Catalogs ship embedded (Urdu and English) and can be extended or
// overridden from a YAML file keyed by locale:
//
//	ur:
//	  form.contact.success: "..."
//	en:
//	  form.contact.success: "..."
package messages

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a requested locale or key is missing.
const DefaultLocale = "ur"

//go:embed locales/*.yaml
var embedded embed.FS

type Catalog struct {
	mu      sync.RWMutex
	locales map[string]map[string]string
}

// New returns a catalog preloaded with the embedded locales.
func New() (*Catalog, error) {
	c := &Catalog{locales: make(map[string]map[string]string)}

	entries, err := embedded.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("messages: read embedded locales: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		data, err := embedded.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("messages: read %s: %w", name, err)
		}

		var flat map[string]string
		if err := yaml.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("messages: parse %s: %w", name, err)
		}

		c.merge(strings.TrimSuffix(name, path.Ext(name)), flat)
	}

	return c, nil
}

// MustNew panics when the embedded catalogs are broken.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Merge applies a YAML document of the form locale -> key -> text. Later
// values win.
func (c *Catalog) Merge(data []byte) error {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("messages: parse overrides: %w", err)
	}

	for locale, flat := range doc {
		c.merge(locale, flat)
	}
	return nil
}

// MergeFile is Merge for a file on disk. An empty path is a no-op.
func (c *Catalog) MergeFile(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("messages: read %s: %w", filename, err)
	}
	return c.Merge(data)
}

func (c *Catalog) merge(locale string, flat map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dst, ok := c.locales[locale]
	if !ok {
		dst = make(map[string]string, len(flat))
		c.locales[locale] = dst
	}
	for key, text := range flat {
		dst[strings.TrimSpace(key)] = text
	}
}

// Locales lists the loaded locale codes.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	return out
}

// For binds the catalog to a locale. Unknown locales fall back to
// DefaultLocale.
func (c *Catalog) For(locale string) Messages {
	return Messages{catalog: c, locale: normalizeLocale(locale)}
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if text, ok := c.locales[locale][key]; ok {
		return text, true
	}
	if text, ok := c.locales[DefaultLocale][key]; ok {
		return text, true
	}
	return "", false
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
