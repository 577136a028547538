package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/mask"
)

var fieldHelp = map[string]string{
	"cnic":        "13 digits, dashes are added for you",
	"phone":       "03xxxxxxxxx or +923xxxxxxxxx",
	"dateOfBirth": "YYYY-MM-DD",
}

var multilineFields = map[string]bool{
	"message": true,
	"address": true,
}

func fillCmd(g *globalOptions, prompter Prompter) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <contact|admission>",
		Short: "Fill in a form interactively and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session(cmd, args[0])
			if err != nil {
				return err
			}

			values, err := s.ask(cmd.Context(), prompter)
			if err != nil {
				return err
			}

			return s.run(cmd, values, false)
		},
	}
}

// ask prompts for every field in display order. Each answer is checked
// against the rules for its own field before moving on.
func (s *session) ask(ctx context.Context, prompter Prompter) (map[string]string, error) {
	v := forms.NewValidator(forms.WithMessages(s.messages))
	values := make(map[string]string, len(s.def.Fields))

	for _, field := range s.def.Fields {
		answer, err := prompter.Ask(ctx, Prompt{
			Message:   s.messages.Get("field."+field) + ":",
			Help:      fieldHelp[field],
			Multiline: multilineFields[field],
			Validator: s.fieldCheck(v, field),
		})
		if err != nil {
			return nil, err
		}
		values[field] = normalize(field, answer)
	}

	return values, nil
}

func (s *session) fieldCheck(v *forms.Validator, field string) func(string) error {
	return func(value string) error {
		payload := s.def.Extract(map[string]string{field: normalize(field, value)})
		for _, fe := range v.Validate(payload) {
			if fe.Field == field {
				return errors.New(fe.Message)
			}
		}
		return nil
	}
}

// normalize applies the input mask for masked fields.
func normalize(field, value string) string {
	if out, err := mask.Apply(field, value); err == nil {
		return out
	}
	return value
}
