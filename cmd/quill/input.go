package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// addSourceFlags adds the flags selecting where source code is read from.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "code to compile")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
}

// source determines the code to compile. There are three possibilities:
// --code, --stdin, or a path as args[0]. At most one may be given. With
// none, code piped to stdin is read.
func (a *app) source(cmd *cobra.Command, args []string) (source, filename string, err error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	count := len(args)
	if codeSet {
		count++
	}
	if stdinSet {
		count++
	}
	switch {
	case count > 1:
		return "", "", errors.New("multiple input sources specified")
	case count == 0 && !a.stdinPiped():
		return "", "", errors.New("no input provided (use a file argument, --code or --stdin)")
	}
	if stdinSet || count == 0 {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, "", nil
}

func (a *app) stdinPiped() bool {
	f, ok := a.stdin.(*os.File)
	return ok && !isTerminal(f.Fd())
}

// parseVars parses --var name=value pairs. Values are read as int, float
// or bool when they parse as one, and as strings otherwise.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q (expected name=value)", pair)
		}
		vars[name] = parseScalar(value)
	}
	return vars, nil
}

func parseScalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// loadData reads a JSON object of variables. Whole numbers become ints.
func loadData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name, value := range data {
		if n, ok := value.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				data[name] = i
			} else if f, err := n.Float64(); err == nil {
				data[name] = f
			}
		}
	}
	return data, nil
}
