package main

import (
	"errors"
	"io/fs"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/quill"
)

const defaultConfigPath = "~/.quill.yaml"

// compileOptions builds the compile options from the config file and the
// command line flags. Flags take precedence over the config file.
func (a *app) compileOptions(cmd *cobra.Command, filename string) ([]quill.Option, error) {
	opts, err := a.configOptions()
	if err != nil {
		return nil, err
	}
	if name := a.v.GetString("filename"); name != "" {
		filename = name
	}
	if filename != "" {
		opts = append(opts, quill.WithFilename(filename))
	}
	if a.v.GetBool("interpreted") {
		opts = append(opts, quill.WithInterpreted(true))
	}
	if a.v.GetBool("index-alloc") {
		opts = append(opts, quill.WithIndexAllocation(true))
	}
	if logger, ok := a.logger(cmd); ok {
		opts = append(opts, quill.WithLogger(logger))
	}
	return opts, nil
}

// configOptions loads the file named by --config, or the default config
// file when it exists.
func (a *app) configOptions() ([]quill.Option, error) {
	path := a.v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	cfg, err := quill.LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return cfg.Options()
}

// evalData merges the --data file with the --var pairs. Pairs win.
func evalData(cmd *cobra.Command) (map[string]any, error) {
	data := map[string]any{}
	if path, _ := cmd.Flags().GetString("data"); path != "" {
		loaded, err := loadData(path)
		if err != nil {
			return nil, err
		}
		data = loaded
	}
	pairs, _ := cmd.Flags().GetStringArray("var")
	vars, err := parseVars(pairs)
	if err != nil {
		return nil, err
	}
	for name, value := range vars {
		data[name] = value
	}
	return data, nil
}
