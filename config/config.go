// Package config loads a chisel ruleset configuration, either from the YAML
// form consumed by "chisel run" or the comma-separated one-liner form
// consumed by "chisel oneliner" (SPEC_FULL.md §6). Both produce the same
// in-memory Config.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PassConfig is one configured pass within a ruleset: its registry identity
// and its own option map.
type PassConfig struct {
	Identity string
	Options  map[string]string
}

// Ruleset is a named sequence of configured passes over a single input
// module, plus the file it reads from and writes to.
type Ruleset struct {
	Name   string
	File   string
	Output string
	Passes []PassConfig
}

// Config is an ordered list of rulesets.
type Config struct {
	Rulesets []Ruleset
}

// LoadYAML parses the ruleset-sequence form: a YAML sequence of single-key
// mappings (ruleset name -> option map). The option map's "file" and
// "output" keys are reserved; every other key names a pass, with that key's
// value as the pass's own option map. yaml.Node is used directly (rather
// than unmarshalling into map[string]any) because a ruleset's pass list is
// ordered and the driver must run passes in configuration order, which a
// Go map does not preserve.
func LoadYAML(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Config{}, nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("config: expected a sequence of rulesets at the document root")
	}

	cfg := &Config{}
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("config: each ruleset entry must be a single-key mapping")
		}
		rs, err := parseRuleset(item.Content[0].Value, item.Content[1])
		if err != nil {
			return nil, err
		}
		cfg.Rulesets = append(cfg.Rulesets, rs)
	}
	return cfg, nil
}

func parseRuleset(name string, body *yaml.Node) (Ruleset, error) {
	if body.Kind != yaml.MappingNode {
		return Ruleset{}, fmt.Errorf("config: ruleset %q body must be a mapping", name)
	}
	rs := Ruleset{Name: name}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		val := body.Content[i+1]
		switch key {
		case "file":
			rs.File = val.Value
		case "output":
			rs.Output = val.Value
		default:
			opts, err := scalarMap(val)
			if err != nil {
				return Ruleset{}, fmt.Errorf("config: ruleset %q pass %q: %w", name, key, err)
			}
			rs.Passes = append(rs.Passes, PassConfig{Identity: key, Options: opts})
		}
	}
	if rs.Output == "" {
		rs.Output = rs.File
	}
	return rs, nil
}

func scalarMap(n *yaml.Node) (map[string]string, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of option names to values")
	}
	opts := map[string]string{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		opts[n.Content[i].Value] = n.Content[i+1].Value
	}
	return opts, nil
}

// Oneliner builds a single-ruleset Config from the flag-driven CLI form:
// a comma-separated pass list and a comma-separated "pass.option=value"
// list.
func Oneliner(file, output, passesCSV, optionsCSV string) *Config {
	if output == "" {
		output = file
	}
	optsByPass := map[string]map[string]string{}
	for _, kv := range splitNonEmpty(optionsCSV) {
		pass, opt, val, ok := splitPassOption(kv)
		if !ok {
			continue
		}
		if optsByPass[pass] == nil {
			optsByPass[pass] = map[string]string{}
		}
		optsByPass[pass][opt] = val
	}

	rs := Ruleset{Name: "oneliner", File: file, Output: output}
	for _, name := range splitNonEmpty(passesCSV) {
		rs.Passes = append(rs.Passes, PassConfig{Identity: name, Options: optsByPass[name]})
	}
	return &Config{Rulesets: []Ruleset{rs}}
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitPassOption parses "pass.option=value" into its three parts.
func splitPassOption(s string) (pass, opt, val string, ok bool) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return "", "", "", false
	}
	key, val := s[:eq], s[eq+1:]
	dot := strings.IndexByte(key, '.')
	if dot < 0 {
		return "", "", "", false
	}
	return key[:dot], key[dot+1:], val, true
}
