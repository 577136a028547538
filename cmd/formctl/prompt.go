package main

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errAborted = errors.New("aborted")

// Prompt is one question asked while filling a form.
type Prompt struct {
	Message   string
	Help      string
	Multiline bool
	Validator func(string) error
}

// Prompter abstracts the terminal so fill can be tested without one.
type Prompter interface {
	Ask(ctx context.Context, p Prompt) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Ask(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var prompt survey.Prompt = &survey.Input{Message: p.Message, Help: p.Help}
	if p.Multiline {
		prompt = &survey.Multiline{Message: p.Message, Help: p.Help}
	}

	var opts []survey.AskOpt
	if p.Validator != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return p.Validator(s)
		}))
	}

	var out string
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
