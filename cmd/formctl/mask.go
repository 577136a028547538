package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/mask"
)

func maskCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mask <cnic|phone> <value>",
		Short:     "Format a CNIC or phone number the way the forms do",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"cnic", "phone"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := mask.Apply(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
