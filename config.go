package quill

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deepnoodle-ai/quill/object"
)

// Config is the file form of the compilation options.
//
//	filename: pricing.ql
//	interpreted: false
//	index_allocation: true
//	max_slots: 64
//	inputs:
//	  qty: int
//	  price: float
//	host_types:
//	  Money: float
type Config struct {
	Filename        string            `yaml:"filename,omitempty"`
	Interpreted     bool              `yaml:"interpreted,omitempty"`
	IndexAllocation bool              `yaml:"index_allocation,omitempty"`
	MaxSlots        int               `yaml:"max_slots,omitempty"`
	Inputs          map[string]string `yaml:"inputs,omitempty"`
	HostTypes       map[string]string `yaml:"host_types,omitempty"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses YAML config data. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.MaxSlots < 0 {
		return nil, fmt.Errorf("invalid config: max_slots must not be negative (got %d)", cfg.MaxSlots)
	}
	return &cfg, nil
}

// Options converts the config to compile options. Type names must be
// primitive type names such as int or string.
func (c *Config) Options() ([]Option, error) {
	inputs, err := parseTypes("inputs", c.Inputs)
	if err != nil {
		return nil, err
	}
	hostTypes, err := parseTypes("host_types", c.HostTypes)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithInterpreted(c.Interpreted),
		WithIndexAllocation(c.IndexAllocation),
		WithMaxSlots(c.MaxSlots),
		WithInputTypes(inputs),
	}
	if c.Filename != "" {
		opts = append(opts, WithFilename(c.Filename))
	}
	for name, typ := range hostTypes {
		opts = append(opts, WithHostType(name, typ))
	}
	return opts, nil
}

func parseTypes(section string, names map[string]string) (map[string]object.Type, error) {
	types := make(map[string]object.Type, len(names))
	for name, typeName := range names {
		typ, err := object.ParseType(typeName)
		if err != nil {
			return nil, fmt.Errorf("invalid config: %s.%s: %w", section, name, err)
		}
		types[name] = typ
	}
	return types, nil
}
