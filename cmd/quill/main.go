package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

// app holds the state shared by every command of a single invocation.
type app struct {
	v     *viper.Viper
	stdin io.Reader
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{v: viper.New(), stdin: stdin}
	a.v.SetEnvPrefix("quill")
	a.v.SetEnvKeyReplacer(envKeyReplacer)
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "quill",
		Short:         "Compile and evaluate quill expressions",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if a.v.GetBool("no-color") {
				color.NoColor = true
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "compile options file (default $HOME/.quill.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("debug", false, "log compilation events to stderr")
	flags.Bool("interpreted", false, "compile conditional bodies when they run")
	flags.Bool("index-alloc", false, "allocate variables to positional slots")
	flags.String("filename", "", "filename used in error messages")

	root.AddCommand(a.newEvalCmd(), a.newCheckCmd(), a.newProtosCmd())
	return root
}

// logger returns the compilation logger selected by --debug.
func (a *app) logger(cmd *cobra.Command) (zerolog.Logger, bool) {
	if !a.v.GetBool("debug") {
		return zerolog.Nop(), false
	}
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger(), true
}

func main() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		fatal(err)
	}
}
