package diagnostics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name looked up next to checked documents.
const DefaultConfigFile = ".robotsls.yaml"

type AnalyzerConfig struct {
	// Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty" mapstructure:"enabled" json:"enabled,omitempty"`
	// Overrides the severity of every diagnostic produced by the analyzer.
	Severity string `yaml:"severity,omitempty" mapstructure:"severity" json:"severity,omitempty"`
}

func (c AnalyzerConfig) GetEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// Config selects and tunes analyzers by name.
type Config struct {
	Analyzers map[string]AnalyzerConfig `yaml:"analyzers,omitempty" mapstructure:"analyzers" json:"analyzers,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

func ParseConfig(data []byte) (*Config, error) {
	conf := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil {
		// a file without any documents
		if errors.Is(err, io.EOF) {
			return conf, nil
		}
		return nil, err
	}
	return conf, nil
}

// Apply filters out disabled analyzers and applies severity overrides. Every
// analyzer named in the config must exist.
func (c *Config) Apply(analyzers []Analyzer) ([]Analyzer, error) {
	if c == nil || len(c.Analyzers) == 0 {
		return analyzers, nil
	}
	var errs []error
	for name := range c.Analyzers {
		if !slices.ContainsFunc(analyzers, func(a Analyzer) bool { return a.Name() == name }) {
			errs = append(errs, fmt.Errorf("unknown analyzer %q", name))
		}
	}
	out := make([]Analyzer, 0, len(analyzers))
	for _, a := range analyzers {
		ac, ok := c.Analyzers[a.Name()]
		if !ok {
			out = append(out, a)
			continue
		}
		if !ac.GetEnabled() {
			continue
		}
		if strings.TrimSpace(ac.Severity) == "" {
			out = append(out, a)
			continue
		}
		severity, err := ParseSeverity(ac.Severity)
		if err != nil {
			errs = append(errs, fmt.Errorf("analyzer %q: %w", a.Name(), err))
			continue
		}
		out = append(out, &severityOverride{Analyzer: a, severity: severity})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

type severityOverride struct {
	Analyzer
	severity Severity
}

func (a *severityOverride) Analyze(node syntax.Node) ([]Diagnostic, error) {
	diagnostics, err := a.Analyzer.Analyze(node)
	diagnostics = slices.Clone(diagnostics)
	for i := range diagnostics {
		diagnostics[i].Severity = a.severity
	}
	return diagnostics, err
}
