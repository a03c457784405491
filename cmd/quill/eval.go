package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/quill"
)

func (a *app) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Compile and run an expression",
		Example: `  quill eval -c "1 + 2"
  quill eval pricing.ql --var qty=12 --var price=20.0
  echo "x * 2" | quill eval --var x=21`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.source(cmd, args)
			if err != nil {
				return err
			}
			opts, err := a.compileOptions(cmd, filename)
			if err != nil {
				return err
			}
			data, err := evalData(cmd)
			if err != nil {
				return err
			}
			program, err := quill.Compile(source, opts...)
			if err != nil {
				return err
			}
			result, err := program.Run(cmd.Context(), data)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			out, err := render(result, format)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringArray("var", nil, "set a variable (name=value)")
	cmd.Flags().String("data", "", "JSON file of variables")
	cmd.Flags().StringP("output", "o", "", "output format (json or text)")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
