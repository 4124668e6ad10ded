package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gsync "github.com/kralicky/gpkg/sync"
	"github.com/kralicky/robotsls/pkg/diagnostics"
	"github.com/kralicky/robotsls/pkg/engine"
	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/file"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

// document is an open text document and the engine serving queries for it.
type document struct {
	uri protocol.DocumentURI

	mu         sync.RWMutex
	version    int32
	mapper     *protocol.Mapper
	engine     *engine.Engine
	unregister func()
}

// Snapshot returns the current version of the document along with the
// engine serving it.
func (d *document) Snapshot() (syntax.Snapshot, *protocol.Mapper, *engine.Engine) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return syntax.Snapshot{Version: d.version, Text: d.mapper.Content}, d.mapper, d.engine
}

func (d *document) update(version int32, text []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = version
	d.mapper = protocol.NewMapper(d.uri, text)
}

type tagsChangedFunc func(d *document, event engine.TagsChangedEvent)

// Cache keeps track of open documents.
type Cache struct {
	logger        *slog.Logger
	onTagsChanged tagsChangedFunc
	// distinguishes result ids handed out by different server instances
	instanceID string

	documents        gsync.Map[protocol.DocumentURI, *document]
	documentVersions *documentVersionQueue

	dispatcherMu sync.RWMutex
	dispatcher   *diagnostics.Dispatcher
	// incremented whenever the dispatcher changes, so that pulled diagnostic
	// results from an older configuration are not reported as unchanged
	generation atomic.Int32
}

func NewCache(logger *slog.Logger, dispatcher *diagnostics.Dispatcher, onTagsChanged tagsChangedFunc) *Cache {
	return &Cache{
		logger:           logger,
		instanceID:       uuid.NewString(),
		dispatcher:       dispatcher,
		onTagsChanged:    onTagsChanged,
		documentVersions: newDocumentVersionQueue(),
	}
}

func (c *Cache) newEngine() *engine.Engine {
	c.dispatcherMu.RLock()
	defer c.dispatcherMu.RUnlock()
	return engine.New(syntax.Parse,
		engine.WithDispatcher(c.dispatcher),
		engine.WithLogger(c.logger),
	)
}

// attach replaces the engine of a document.
func (c *Cache) attach(d *document) {
	e := c.newEngine()
	var unregister func()
	if c.onTagsChanged != nil {
		unregister = e.OnTagsChanged(func(event engine.TagsChangedEvent) {
			c.onTagsChanged(d, event)
		})
	}
	d.mu.Lock()
	previous := d.unregister
	d.engine, d.unregister = e, unregister
	d.mu.Unlock()
	if previous != nil {
		previous()
	}
}

func (c *Cache) detach(d *document) {
	d.mu.Lock()
	unregister := d.unregister
	d.unregister = nil
	d.mu.Unlock()
	if unregister != nil {
		unregister()
	}
}

// Open starts tracking a document. Opening an already open document replaces
// it.
func (c *Cache) Open(uri protocol.DocumentURI, version int32, text []byte) *document {
	d := &document{
		uri:     uri,
		version: version,
		mapper:  protocol.NewMapper(uri, text),
	}
	c.attach(d)
	if previous, loaded := c.documents.Load(uri); loaded {
		c.detach(previous)
	}
	c.documents.Store(uri, d)
	c.logger.Debug("opened document", "uri", uri, "version", version)
	return d
}

func (c *Cache) Close(uri protocol.DocumentURI) {
	if d, ok := c.documents.LoadAndDelete(uri); ok {
		c.detach(d)
	}
	c.documentVersions.Update(file.Modification{URI: uri, Action: file.Close, Version: -1})
	c.logger.Debug("closed document", "uri", uri)
}

func (c *Cache) Get(uri protocol.DocumentURI) (*document, error) {
	d, ok := c.documents.Load(uri)
	if !ok {
		return nil, fmt.Errorf("%w: document %s is not open", jsonrpc2.ErrInvalidParams, uri)
	}
	return d, nil
}

// Change applies content changes to an open document and reports the changes
// to its engine.
func (c *Cache) Change(uri protocol.DocumentURI, version int32, changes []protocol.TextDocumentContentChangeEvent) (*document, error) {
	d, err := c.Get(uri)
	if err != nil {
		return nil, err
	}
	before, mapper, e := d.Snapshot()
	if version <= before.Version {
		c.logger.Warn("ignoring out of order document change",
			"uri", uri,
			"version", version,
			"current", before.Version,
		)
		return d, nil
	}
	text, edits, err := ChangedText(mapper, changes)
	if err != nil {
		return nil, err
	}
	d.update(version, text)
	e.ApplyEdit(engine.Edit{
		Before:  before,
		After:   syntax.Snapshot{Version: version, Text: text},
		Changes: edits,
	})
	return d, nil
}

// Documents returns all open documents.
func (c *Cache) Documents() []*document {
	var docs []*document
	c.documents.Range(func(_ protocol.DocumentURI, d *document) bool {
		docs = append(docs, d)
		return true
	})
	return docs
}

// SetDispatcher replaces the dispatcher used by all documents.
func (c *Cache) SetDispatcher(dispatcher *diagnostics.Dispatcher) {
	c.dispatcherMu.Lock()
	c.dispatcher = dispatcher
	c.dispatcherMu.Unlock()
	c.generation.Add(1)

	for _, d := range c.Documents() {
		c.attach(d)
	}
}

// ResultID identifies the diagnostics of a document version under the
// current configuration.
func (c *Cache) ResultID(version int32) string {
	return fmt.Sprintf("%s.%d.%d", c.instanceID, c.generation.Load(), version)
}

func (c *Cache) WaitDocumentVersion(ctx context.Context, uri protocol.DocumentURI, version int32) error {
	ctx, ca := context.WithTimeout(ctx, 2*time.Second)
	defer ca()
	return c.documentVersions.Wait(ctx, uri, version)
}
