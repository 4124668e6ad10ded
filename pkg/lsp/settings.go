package lsp

import (
	"fmt"
	"maps"

	"github.com/kralicky/robotsls/pkg/diagnostics"
	"github.com/mitchellh/mapstructure"
)

// SettingsSection is the configuration section clients may nest settings
// under.
const SettingsSection = "robotsls"

type Settings struct {
	LogLevel string `mapstructure:"logLevel" json:"logLevel"`
	// Path to a yaml analyzer config. Entries in Analyzers take precedence
	// over the file.
	ConfigFile string                                 `mapstructure:"configFile" json:"configFile"`
	Analyzers  map[string]diagnostics.AnalyzerConfig `mapstructure:"analyzers" json:"analyzers"`
}

// DecodeSettings decodes settings sent by a client, either at the top level
// or nested under SettingsSection.
func DecodeSettings(input any) (Settings, error) {
	var settings Settings
	if input == nil {
		return settings, nil
	}
	if m, ok := input.(map[string]any); ok {
		if nested, ok := m[SettingsSection]; ok {
			input = nested
		}
	}
	if err := mapstructure.Decode(input, &settings); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// AnalyzerConfig loads ConfigFile, if set, and overlays Analyzers on top.
func (s *Settings) AnalyzerConfig() (*diagnostics.Config, error) {
	conf := &diagnostics.Config{}
	if s.ConfigFile != "" {
		loaded, err := diagnostics.LoadConfig(s.ConfigFile)
		if err != nil {
			return nil, err
		}
		conf = loaded
	}
	if len(s.Analyzers) > 0 {
		merged := maps.Clone(conf.Analyzers)
		if merged == nil {
			merged = make(map[string]diagnostics.AnalyzerConfig, len(s.Analyzers))
		}
		maps.Copy(merged, s.Analyzers)
		conf.Analyzers = merged
	}
	return conf, nil
}

// NewDispatcher builds a dispatcher for the builtin analyzers with the
// settings applied.
func (s *Settings) NewDispatcher(opts ...diagnostics.DispatcherOption) (*diagnostics.Dispatcher, error) {
	conf, err := s.AnalyzerConfig()
	if err != nil {
		return nil, err
	}
	analyzers, err := conf.Apply(diagnostics.Builtin())
	if err != nil {
		return nil, err
	}
	return diagnostics.NewDispatcher(diagnostics.NewRegistry(analyzers...), opts...), nil
}
