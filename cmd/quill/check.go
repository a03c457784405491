package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/quill"
)

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Compile without running and report errors",
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
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "unit %s: %d prototypes, %d slots\n",
					program.ID(), len(program.Protos()), len(program.SlotNames()))
				if specs := program.Specializations(); len(specs) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "specialized: %s\n", strings.Join(specs, ", "))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().BoolP("verbose", "v", false, "describe the compiled unit")
	return cmd
}
