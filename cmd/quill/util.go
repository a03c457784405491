package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"

	"github.com/deepnoodle-ai/quill/errors"
)

var envKeyReplacer = strings.NewReplacer("-", "_")

func fatal(err error) {
	fmt.Fprintln(os.Stderr, formatError(err))
	os.Exit(1)
}

// formatError renders compile and runtime errors with their source context
// and any other error as a plain message.
func formatError(err error) string {
	var coded errors.CodedError
	var merr *multierror.Error
	if goerrors.As(err, &coded) || goerrors.As(err, &merr) {
		return errors.NewFormatter(!colorDisabled()).FormatError(err)
	}
	return red(err.Error())
}

func colorDisabled() bool {
	return color.NoColor
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var outputFormats = []string{"json", "text"}

// render formats an evaluation result. With no format given, nil prints
// nothing, JSON-compatible values print as JSON and anything else prints
// as text.
func render(result any, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		if result == nil {
			return "", nil
		}
		out, err := renderJSON(result)
		if err != nil {
			return fmt.Sprint(result), nil
		}
		return out, nil
	case "json":
		return renderJSON(result)
	case "text":
		if result == nil {
			return "nil", nil
		}
		return fmt.Sprint(result), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected one of %s)",
			format, strings.Join(outputFormats, ", "))
	}
}

func renderJSON(v any) (string, error) {
	if colorDisabled() {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := prettyjson.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
