package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/quill"
)

func (a *app) newProtosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protos [file]",
		Short: "List the prototypes a unit declares",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.source(cmd, args)
			if err != nil {
				return err
			}
			opts, err := a.compileOptions(cmd, filename)
			if err != nil {
				return err
			}
			program, err := quill.Compile(source, opts...)
			if err != nil {
				return err
			}
			out, err := renderJSON(program.Describe())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}
