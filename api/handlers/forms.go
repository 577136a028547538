package handlers

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/controller"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/metrics"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

type FormSetOptions struct {
	APIBase       string
	Timeout       time.Duration
	DefaultLocale string
	Recorder      metrics.Recorder
	Logger        *slog.Logger
	// Forwarded to every validator, e.g. a fixed clock in tests.
	ValidatorOptions []forms.ValidatorOption
}

// FormSet holds one controller per form and locale, built at startup.
type FormSet struct {
	controllers   map[string]map[string]*controller.Controller
	catalog       *messages.Catalog
	locales       []string
	defaultLocale string
}

func NewFormSet(catalog *messages.Catalog, client submission.Client, opts FormSetOptions) *FormSet {
	defaultLocale := opts.DefaultLocale
	if defaultLocale == "" {
		defaultLocale = messages.DefaultLocale
	}

	locales := catalog.Locales()
	sort.Strings(locales)

	set := &FormSet{
		controllers:   make(map[string]map[string]*controller.Controller),
		catalog:       catalog,
		locales:       locales,
		defaultLocale: catalog.For(defaultLocale).Locale(),
	}

	for _, name := range forms.Names() {
		def := forms.MustLookup(name)
		set.controllers[name] = make(map[string]*controller.Controller, len(set.locales))

		for _, locale := range set.locales {
			msgs := catalog.For(locale)
			validatorOpts := append([]forms.ValidatorOption{forms.WithMessages(msgs)}, opts.ValidatorOptions...)

			set.controllers[name][locale] = controller.New(def, client, controller.Options{
				APIBase:   opts.APIBase,
				Timeout:   opts.Timeout,
				Messages:  msgs,
				Validator: forms.NewValidator(validatorOpts...),
				Recorder:  opts.Recorder,
				Logger:    opts.Logger,
			})
		}
	}

	return set
}

// Locale picks the request locale: ?lang= first, then Accept-Language,
// then the default.
func (s *FormSet) Locale(c *fiber.Ctx) string {
	if lang := s.catalog.For(c.Query("lang")).Locale(); s.known(lang) {
		return lang
	}
	if c.Get(fiber.HeaderAcceptLanguage) != "" {
		if lang := c.AcceptsLanguages(s.locales...); lang != "" {
			return lang
		}
	}
	return s.defaultLocale
}

func (s *FormSet) known(locale string) bool {
	for _, l := range s.locales {
		if l == locale {
			return true
		}
	}
	return false
}

func (s *FormSet) Controller(form, locale string) (*controller.Controller, error) {
	def, err := forms.Lookup(form)
	if err != nil {
		return nil, err
	}

	byLocale := s.controllers[def.Name]
	if ctrl, ok := byLocale[locale]; ok {
		return ctrl, nil
	}
	if ctrl, ok := byLocale[s.defaultLocale]; ok {
		return ctrl, nil
	}
	return nil, fmt.Errorf("no controller for %s/%s", def.Name, locale)
}

func (s *FormSet) Messages(locale string) messages.Messages {
	return s.catalog.For(locale)
}
