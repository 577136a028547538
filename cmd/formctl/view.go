package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/controller"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

var _ controller.View = (*terminalView)(nil)

// terminalView prints what a browser form would display.
type terminalView struct {
	out             io.Writer
	values          map[string]string
	label           string
	identifierLabel string
	focused         string
}

func newTerminalView(out io.Writer, values map[string]string, m messages.Messages, identifierKey string) *terminalView {
	return &terminalView{
		out:             out,
		values:          values,
		label:           "submit",
		identifierLabel: m.Get(identifierKey),
	}
}

func (v *terminalView) Values() map[string]string {
	return v.values
}

func (v *terminalView) SubmitLabel() string {
	return v.label
}

func (v *terminalView) SetSubmit(enabled bool, label string) {
	if !enabled {
		fmt.Fprintf(v.out, "... %s\n", label)
	}
	v.label = label
}

func (v *terminalView) Show(result submission.Result) {
	if result.OK() {
		fmt.Fprintf(v.out, "\033[32m✓\033[0m %s\n", result.Message)
		if result.Identifier != "" {
			fmt.Fprintf(v.out, "  %s: %s\n", v.identifierLabel, result.Identifier)
		}
		return
	}

	for _, line := range strings.Split(result.Message, "\n") {
		fmt.Fprintf(v.out, "\033[31m✗\033[0m %s\n", line)
	}
}

func (v *terminalView) Reset() {
	v.values = map[string]string{}
}

func (v *terminalView) Focus(field string) {
	v.focused = field
}
