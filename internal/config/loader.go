package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "MIRA_CONFIG"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where a config value came from.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config *Config
	// Sources maps dotted YAML keys ("shortcuts.clear") to their position in
	// File. Keys left at their default are absent.
	Sources map[string]Source
	File    string // empty when no file was found
}

// SourceOf reports where key was set, defaulting to SourceDefault.
func (r *LoadResult) SourceOf(key string) Source {
	if src, ok := r.Sources[key]; ok {
		return src
	}
	return Source{Kind: SourceDefault}
}

// DefaultConfigPath returns $MIRA_CONFIG or ~/.config/mira/config.yaml.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "mira", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadFromPath merges the file at path over the defaults and validates the
// result. Validation errors point at the offending line when possible.
func LoadFromPath(path string) (*LoadResult, error) {
	res := &LoadResult{Sources: map[string]Source{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Config = DefaultConfig()
	case err != nil:
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	default:
		raw, sources, err := parseFile(path, data)
		if err != nil {
			return nil, err
		}
		res.Config = BuildEffectiveConfig(raw)
		res.Sources = sources
		res.File = path
	}

	if err := res.Config.Validate(); err != nil {
		return nil, withSource(err, res.Sources)
	}
	return res, nil
}

// parseFile decodes data strictly, rejecting unknown keys, and records the
// position of every key it sets.
func parseFile(path string, data []byte) (RawConfig, map[string]Source, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}
	sources := map[string]Source{}
	if len(doc.Content) == 0 {
		return RawConfig{}, sources, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return RawConfig{}, nil, fmt.Errorf("%s: top level must be a mapping", path)
	}

	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return RawConfig{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	walkKeys(root, "", func(key string, val *yaml.Node) {
		sources[key] = Source{Kind: SourceFile, File: path, Line: val.Line, Column: val.Column}
	})
	return raw, sources, nil
}

func walkKeys(node *yaml.Node, prefix string, visit func(key string, val *yaml.Node)) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		val := node.Content[i+1]
		visit(key, val)
		walkKeys(val, key, visit)
	}
}

func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
