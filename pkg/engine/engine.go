// Package engine ties the parser and the query packages together behind a
// per-version tree cache.
package engine

import (
	"log/slog"
	"slices"
	"sync"

	gsync "github.com/kralicky/gpkg/sync"
	"github.com/kralicky/robotsls/pkg/classify"
	"github.com/kralicky/robotsls/pkg/diagnostics"
	"github.com/kralicky/robotsls/pkg/impact"
	"github.com/kralicky/robotsls/pkg/references"
	"github.com/kralicky/robotsls/pkg/syntax"
)

const DefaultRetainedVersions = 2

type EngineOptions struct {
	dispatcher       *diagnostics.Dispatcher
	retainedVersions int
	logger           *slog.Logger
}

type EngineOption func(*EngineOptions)

func (o *EngineOptions) apply(opts ...EngineOption) {
	for _, op := range opts {
		op(o)
	}
}

func WithDispatcher(dispatcher *diagnostics.Dispatcher) EngineOption {
	return func(o *EngineOptions) {
		o.dispatcher = dispatcher
	}
}

// WithRetainedVersions sets how many of the most recent tree versions stay
// cached. Values below 1 are treated as 1.
func WithRetainedVersions(n int) EngineOption {
	return func(o *EngineOptions) {
		o.retainedVersions = max(n, 1)
	}
}

func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *EngineOptions) {
		o.logger = logger
	}
}

// Edit describes a change from one snapshot of a document to another.
type Edit struct {
	Before  syntax.Snapshot
	After   syntax.Snapshot
	Changes []impact.Change
}

// TagsChangedEvent reports the span of a snapshot whose classifications and
// diagnostics must be requested again.
type TagsChangedEvent struct {
	Version int32
	Span    syntax.Span
}

type treeEntry struct {
	once sync.Once
	tree *syntax.Tree
}

// Engine serves queries for a single document. Trees are built at most once
// per cached snapshot version; all queries are safe for concurrent use.
type Engine struct {
	EngineOptions
	parse syntax.ParseFunc

	trees gsync.Map[int32, *treeEntry]

	versionsMu sync.Mutex
	versions   []int32 // cached versions, ascending

	editMu        sync.Mutex
	latestEdit    int32
	hasLatestEdit bool

	listenersMu    sync.Mutex
	listeners      map[uint64]func(TagsChangedEvent)
	nextListenerID uint64
}

func New(parse syntax.ParseFunc, opts ...EngineOption) *Engine {
	options := EngineOptions{
		retainedVersions: DefaultRetainedVersions,
		logger:           slog.Default(),
	}
	options.apply(opts...)
	if options.dispatcher == nil {
		options.dispatcher = diagnostics.NewDispatcher(diagnostics.NewRegistry(diagnostics.Builtin()...))
	}
	return &Engine{
		EngineOptions: options,
		parse:         parse,
		listeners:     make(map[uint64]func(TagsChangedEvent)),
	}
}

// Tree returns the tree for a snapshot, parsing it on first access.
// Concurrent callers asking for the same version share a single parse.
func (e *Engine) Tree(snapshot syntax.Snapshot) *syntax.Tree {
	entry, loaded := e.trees.LoadOrStore(snapshot.Version, &treeEntry{})
	entry.once.Do(func() {
		entry.tree = e.parse(snapshot)
		e.logger.Debug("parsed snapshot", "version", snapshot.Version, "records", len(entry.tree.Root.Records))
	})
	if !loaded {
		e.track(snapshot.Version)
	}
	return entry.tree
}

// CachedVersions returns the versions currently held in the cache.
func (e *Engine) CachedVersions() []int32 {
	e.versionsMu.Lock()
	defer e.versionsMu.Unlock()
	return slices.Clone(e.versions)
}

func (e *Engine) track(version int32) {
	e.versionsMu.Lock()
	defer e.versionsMu.Unlock()
	i, found := slices.BinarySearch(e.versions, version)
	if !found {
		e.versions = slices.Insert(e.versions, i, version)
	}
	for len(e.versions) > e.retainedVersions {
		evicted := e.versions[0]
		e.versions = e.versions[1:]
		e.trees.Delete(evicted)
		e.logger.Debug("evicted snapshot", "version", evicted)
	}
}

func (e *Engine) Classify(snapshot syntax.Snapshot, rng syntax.Span) []classify.Classification {
	return classify.Classify(e.Tree(snapshot), rng)
}

func (e *Engine) Analyze(snapshot syntax.Snapshot, rng syntax.Span) []diagnostics.Diagnostic {
	return e.dispatcher.Analyze(e.Tree(snapshot), rng)
}

func (e *Engine) HighlightsAt(snapshot syntax.Snapshot, caret int) []syntax.Span {
	return references.HighlightsAt(e.Tree(snapshot), caret)
}

// OnTagsChanged registers fn to be called after every edit that requires
// re-tagging. The returned function unregisters it.
func (e *Engine) OnTagsChanged(fn func(TagsChangedEvent)) (unregister func()) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	id := e.nextListenerID
	e.nextListenerID++
	e.listeners[id] = fn
	return func() {
		e.listenersMu.Lock()
		defer e.listenersMu.Unlock()
		delete(e.listeners, id)
	}
}

// ApplyEdit computes the impact of an edit and notifies listeners if any
// re-tagging is needed. Edits whose resulting version is not newer than the
// last applied edit are ignored.
func (e *Engine) ApplyEdit(edit Edit) (syntax.Span, bool) {
	e.editMu.Lock()
	if latest := e.latestEdit; e.hasLatestEdit && edit.After.Version <= latest {
		e.editMu.Unlock()
		e.logger.Debug("ignoring stale edit",
			"version", edit.After.Version,
			"latest", latest,
		)
		return syntax.Span{}, false
	}
	e.latestEdit = edit.After.Version
	e.hasLatestEdit = true
	e.editMu.Unlock()

	span, ok := impact.Impact(e.Tree(edit.Before), e.Tree(edit.After), edit.Changes)
	if !ok {
		return syntax.Span{}, false
	}
	e.notify(TagsChangedEvent{Version: edit.After.Version, Span: span})
	return span, true
}

func (e *Engine) notify(event TagsChangedEvent) {
	e.listenersMu.Lock()
	ids := make([]uint64, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(TagsChangedEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.listeners[id])
	}
	e.listenersMu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
