package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var errNotSubmitted = errors.New("form was not submitted")

func submitCmd(g *globalOptions) *cobra.Command {
	var (
		set    []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "submit <contact|admission>",
		Short: "Validate and submit a form from flags",
		Example: `  formctl submit contact --set name=Ali --set email=ali@example.com \
    --set subject=Admissions --set "message=When does the term start?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(set)
			if err != nil {
				return err
			}

			s, err := g.session(cmd, args[0])
			if err != nil {
				return err
			}

			return s.run(cmd, values, asJSON)
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "field value as name=value, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func (s *session) run(cmd *cobra.Command, values map[string]string, asJSON bool) error {
	out := cmd.OutOrStdout()
	viewOut := out
	if asJSON {
		viewOut = io.Discard
	}

	view := newTerminalView(viewOut, values, s.messages, s.def.IdentifierKey)
	result, err := s.ctrl.Bind(view).Submit(cmd.Context())
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	if !result.OK() {
		return fmt.Errorf("%w: %s", errNotSubmitted, result.Outcome)
	}
	return nil
}

func parseAssignments(set []string) (map[string]string, error) {
	values := make(map[string]string, len(set))
	for _, kv := range set {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", kv)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}
