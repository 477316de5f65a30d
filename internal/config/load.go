package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaText string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaText)
	})
	return schema, schemaErr
}

// Load reads a config file and overlays it on DefaultConfig. The format is
// picked by extension: .json, .toml, .yaml or .yml. The document is checked
// against the embedded JSON schema before it is decoded.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(filepath.Ext(path), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes raw in the format named by ext (with or without the leading
// dot) and overlays it on DefaultConfig.
func Parse(ext string, raw []byte) (*Config, error) {
	doc, err := decode(strings.TrimPrefix(strings.ToLower(ext), "."), raw)
	if err != nil {
		return nil, err
	}

	// Every format is normalised to JSON so one schema and one set of tags
	// covers them all.
	norm, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalise config: %w", err)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(norm))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("normalise config: %w", err)
	}

	s, err := configSchema()
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(norm, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func decode(format string, raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	switch format {
	case "json":
		var doc any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return doc, nil
	case "toml":
		tree, err := toml.LoadBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		return tree.ToMap(), nil
	case "yaml", "yml":
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("unsupported config format %q", format)
}
