package diagnostics

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/kralicky/robotsls/pkg/syntax"
)

// Failure describes an analyzer that returned an error or panicked.
type Failure struct {
	Analyzer string
	Kind     syntax.Kind
	Span     syntax.Span
	Err      error
}

type DispatcherOptions struct {
	onFailure func(Failure)
}

type DispatcherOption func(*DispatcherOptions)

func (o *DispatcherOptions) apply(opts ...DispatcherOption) {
	for _, op := range opts {
		op(o)
	}
}

// WithFailureHandler registers a function called for every analyzer failure,
// in addition to logging it.
func WithFailureHandler(fn func(Failure)) DispatcherOption {
	return func(o *DispatcherOptions) {
		o.onFailure = fn
	}
}

// Dispatcher routes syntax nodes to the analyzers registered for their kind.
type Dispatcher struct {
	DispatcherOptions
	registry *Registry
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	options := DispatcherOptions{}
	options.apply(opts...)
	return &Dispatcher{
		DispatcherOptions: options,
		registry:          registry,
	}
}

// Analyze runs every matching analyzer on each node of the tree whose span
// intersects rng, visiting nodes depth-first starting at the root. A failing
// analyzer is logged and skipped; it never prevents other analyzers or nodes
// from being analyzed.
func (d *Dispatcher) Analyze(tree *syntax.Tree, rng syntax.Span) []Diagnostic {
	var diagnostics []Diagnostic
	syntax.Walk(tree.Root, func(node syntax.Node) bool {
		// children are always contained in their parent's span
		if !node.Span().IntersectsWith(rng) {
			return false
		}
		for _, a := range d.registry.AnalyzersFor(node.Kind()) {
			diagnostics = append(diagnostics, d.run(a, node)...)
		}
		return true
	})
	return diagnostics
}

func (d *Dispatcher) run(a Analyzer, node syntax.Node) (diagnostics []Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(a, node, fmt.Errorf("panic: %v", r))
			diagnostics = nil
		}
	}()
	diagnostics, err := a.Analyze(node)
	if err != nil {
		d.fail(a, node, err)
		return nil
	}
	// analyzers may return slices they keep using
	diagnostics = slices.Clone(diagnostics)
	for i := range diagnostics {
		if diagnostics[i].Code == "" {
			diagnostics[i].Code = a.Name()
		}
		if diagnostics[i].Source == "" {
			diagnostics[i].Source = Source
		}
	}
	return diagnostics
}

func (d *Dispatcher) fail(a Analyzer, node syntax.Node, err error) {
	f := Failure{
		Analyzer: a.Name(),
		Kind:     node.Kind(),
		Span:     node.Span(),
		Err:      err,
	}
	slog.With(
		"analyzer", f.Analyzer,
		"kind", f.Kind.String(),
		"span", f.Span.String(),
		"error", err,
	).Error("analyzer failed")
	if d.onFailure != nil {
		d.onFailure(f)
	}
}
