package diagnostics

import (
	"slices"

	"github.com/kralicky/robotsls/pkg/syntax"
)

// Analyzer inspects syntax nodes and reports diagnostics for them.
type Analyzer interface {
	// Name is a stable identifier, also used as the diagnostic code.
	Name() string
	// Kinds lists the node kinds the analyzer is able to inspect. The
	// analyzer is also invoked for every kind deriving from one of these.
	Kinds() []syntax.Kind
	Analyze(node syntax.Node) ([]Diagnostic, error)
}

type analyzerFunc struct {
	name  string
	kinds []syntax.Kind
	fn    func(syntax.Node) ([]Diagnostic, error)
}

// NewAnalyzer creates an Analyzer from a function.
func NewAnalyzer(name string, kinds []syntax.Kind, fn func(syntax.Node) ([]Diagnostic, error)) Analyzer {
	return &analyzerFunc{name: name, kinds: kinds, fn: fn}
}

func (a *analyzerFunc) Name() string                                 { return a.name }
func (a *analyzerFunc) Kinds() []syntax.Kind                         { return a.kinds }
func (a *analyzerFunc) Analyze(n syntax.Node) ([]Diagnostic, error) { return a.fn(n) }

// Registry maps each node kind to the ordered list of analyzers capable of
// inspecting it. It is immutable after construction.
type Registry struct {
	analyzers []Analyzer
	byKind    map[syntax.Kind][]Analyzer
}

// NewRegistry builds the capability table for the given analyzers. Analyzers
// matching the same kind keep the order in which they were passed.
func NewRegistry(analyzers ...Analyzer) *Registry {
	r := &Registry{
		analyzers: slices.Clone(analyzers),
		byKind:    make(map[syntax.Kind][]Analyzer),
	}
	for _, kind := range syntax.Kinds() {
		for _, a := range r.analyzers {
			if slices.ContainsFunc(a.Kinds(), kind.Is) {
				r.byKind[kind] = append(r.byKind[kind], a)
			}
		}
	}
	return r
}

// AnalyzersFor returns the analyzers to run for a node of the given kind.
// The returned slice must not be modified.
func (r *Registry) AnalyzersFor(kind syntax.Kind) []Analyzer {
	return r.byKind[kind]
}

// Analyzers returns all registered analyzers in registration order.
func (r *Registry) Analyzers() []Analyzer {
	return slices.Clone(r.analyzers)
}
