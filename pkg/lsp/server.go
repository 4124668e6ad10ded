package lsp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/kralicky/robotsls/pkg/diagnostics"
	"github.com/kralicky/robotsls/pkg/engine"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
)

// Version is reported to clients in the initialize response.
var Version = "dev"

// TagsChangedMethod is the notification sent after an edit that requires
// classifications and diagnostics to be requested again.
const TagsChangedMethod = "robotsls/tagsChanged"

type TagsChangedParams struct {
	URI     protocol.DocumentURI `json:"uri"`
	Version int32                `json:"version"`
	Range   protocol.Range       `json:"range"`
}

// Notifier sends notifications that are not part of the LSP client
// interface. A jsonrpc2.Conn satisfies it.
type Notifier interface {
	Notify(ctx context.Context, method string, params any) error
}

type ServerOptions struct {
	notifier Notifier
	logger   *slog.Logger
}

type ServerOption func(*ServerOptions)

func (o *ServerOptions) apply(opts ...ServerOption) {
	for _, op := range opts {
		op(o)
	}
}

func WithNotifier(notifier Notifier) ServerOption {
	return func(o *ServerOptions) {
		o.notifier = notifier
	}
}

func WithLogger(logger *slog.Logger) ServerOption {
	return func(o *ServerOptions) {
		o.logger = logger
	}
}

type Server struct {
	ServerOptions
	client protocol.Client
	cache  *Cache

	// serializes diagnostics publishing so that an older version never
	// overwrites a newer one
	publishMu sync.Mutex

	settingsMu sync.Mutex
	settings   Settings
	// config file found in the workspace root at initialize, used whenever
	// the client settings do not name one
	rootConfigFile string

	shutdown atomic.Bool
}

var _ protocol.Server = (*Server)(nil)

func NewServer(client protocol.Client, opts ...ServerOption) *Server {
	options := ServerOptions{
		logger: slog.Default(),
	}
	options.apply(opts...)
	s := &Server{
		ServerOptions: options,
		client:        client,
	}
	defaultDispatcher := diagnostics.NewDispatcher(diagnostics.NewRegistry(diagnostics.Builtin()...))
	s.cache = NewCache(options.logger, defaultDispatcher, s.tagsChanged)
	return s
}

// Initialize implements protocol.Server.
func (s *Server) Initialize(ctx context.Context, params *protocol.ParamInitialize) (*protocol.InitializeResult, error) {
	settings, err := DecodeSettings(params.InitializationOptions)
	if err != nil {
		s.logger.With("error", err).Warn("ignoring initialization options")
	}
	if params.RootURI != "" {
		candidate := filepath.Join(params.RootURI.Path(), diagnostics.DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			s.settingsMu.Lock()
			s.rootConfigFile = candidate
			s.settingsMu.Unlock()
		} else if !errors.Is(err, fs.ErrNotExist) {
			s.logger.With("path", candidate, "error", err).Warn("failed to stat config file")
		}
	}
	if err := s.applySettings(settings); err != nil {
		s.logger.With("error", err).Error("invalid settings, using defaults")
	}
	s.logger.Debug("Initialize", "root", params.RootURI, "pid", params.ProcessID)

	encoding := protocol.UTF16
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			PositionEncoding: &encoding,
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.Incremental,
				Save:      &protocol.SaveOptions{IncludeText: false},
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     semanticTokenTypes,
					TokenModifiers: semanticTokenModifiers,
				},
				Full:  &protocol.Or_SemanticTokensOptions_full{Value: true},
				Range: &protocol.Or_SemanticTokensOptions_range{Value: true},
			},
			DocumentHighlightProvider: &protocol.Or_ServerCapabilities_documentHighlightProvider{Value: true},
			DocumentFormattingProvider: &protocol.Or_ServerCapabilities_documentFormattingProvider{
				Value: protocol.DocumentFormattingOptions{},
			},
			DiagnosticProvider: &protocol.Or_ServerCapabilities_diagnosticProvider{
				Value: protocol.DiagnosticOptions{
					Identifier: diagnostics.Source,
				},
			},
			HoverProvider:          &protocol.Or_ServerCapabilities_hoverProvider{Value: true},
			DocumentSymbolProvider: &protocol.Or_ServerCapabilities_documentSymbolProvider{Value: true},
			DocumentLinkProvider:   &protocol.DocumentLinkOptions{},
			CompletionProvider:     &protocol.CompletionOptions{},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "robotsls",
			Version: Version,
		},
	}, nil
}

// Initialized implements protocol.Server.
func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s.logger.Debug("Initialized")
	return nil
}

// Shutdown implements protocol.Server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdown.Store(true)
	for _, d := range s.cache.Documents() {
		s.cache.Close(d.uri)
	}
	return nil
}

// Exit implements protocol.Server. The connection is closed by the caller
// once the notification has been handled.
func (s *Server) Exit(ctx context.Context) error {
	s.logger.Debug("Exit")
	return nil
}

// IsShutdown reports whether a shutdown request has been received.
func (s *Server) IsShutdown() bool {
	return s.shutdown.Load()
}

// DidOpen implements protocol.Server.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	d := s.cache.Open(params.TextDocument.URI, params.TextDocument.Version, []byte(params.TextDocument.Text))
	go s.publishDiagnostics(context.WithoutCancel(ctx), d)
	return nil
}

// DidChange implements protocol.Server.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	d, err := s.cache.Change(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges)
	if err != nil {
		return err
	}
	// diagnostics are republished even without a tags change, since their
	// positions may have moved
	go s.publishDiagnostics(context.WithoutCancel(ctx), d)
	return nil
}

// DidClose implements protocol.Server.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cache.Close(params.TextDocument.URI)
	s.clearDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

// DidSave implements protocol.Server.
func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", "uri", params.TextDocument.URI)
	return nil
}

// DidChangeConfiguration implements protocol.Server.
func (s *Server) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	settings, err := DecodeSettings(params.Settings)
	if err != nil {
		return err
	}
	if err := s.applySettings(settings); err != nil {
		return err
	}
	for _, d := range s.cache.Documents() {
		go s.publishDiagnostics(context.WithoutCancel(ctx), d)
	}
	return nil
}

// applySettings validates settings and only then makes them current, so a
// rejected configuration leaves the previous one fully in place.
func (s *Server) applySettings(settings Settings) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	if settings.ConfigFile == "" {
		settings.ConfigFile = s.rootConfigFile
	}
	var level *AtomicLeveler
	if settings.LogLevel != "" {
		level = &AtomicLeveler{}
		if err := level.Set(settings.LogLevel); err != nil {
			return err
		}
	}
	dispatcher, err := settings.NewDispatcher()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if level != nil {
		GlobalAtomicLeveler.SetLevel(level.Level())
	}
	s.settings = settings
	s.cache.SetDispatcher(dispatcher)
	return nil
}

// Settings returns the settings most recently applied.
func (s *Server) Settings() Settings {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.settings
}

// SemanticTokensFull implements protocol.Server.
func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	return s.semanticTokens(params.TextDocument.URI, nil)
}

// SemanticTokensRange implements protocol.Server.
func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	return s.semanticTokens(params.TextDocument.URI, &params.Range)
}

// DocumentHighlight implements protocol.Server.
func (s *Server) DocumentHighlight(ctx context.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	return s.documentHighlight(params)
}

// Diagnostic implements protocol.Server.
func (s *Server) Diagnostic(ctx context.Context, params *protocol.DocumentDiagnosticParams) (*protocol.DocumentDiagnosticReport, error) {
	return s.documentDiagnostic(params.TextDocument.URI, params.PreviousResultID)
}

// Formatting implements protocol.Server.
func (s *Server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	return s.formatDocument(params.TextDocument.URI)
}

// Hover implements protocol.Server.
func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	return s.hover(params)
}

// DocumentSymbol implements protocol.Server. Every element of the result is
// a protocol.DocumentSymbol.
func (s *Server) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]interface{}, error) {
	symbols, err := s.documentSymbols(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}
	return result, nil
}

// DocumentLink implements protocol.Server.
func (s *Server) DocumentLink(ctx context.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	return s.documentLinks(params.TextDocument.URI)
}

// Completion implements protocol.Server.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	return s.completion(params)
}

// WaitDocumentVersion blocks until diagnostics for the given version of a
// document have been published, or a short timeout elapses.
func (s *Server) WaitDocumentVersion(ctx context.Context, uri protocol.DocumentURI, version int32) error {
	return s.cache.WaitDocumentVersion(ctx, uri, version)
}

func (s *Server) tagsChanged(d *document, event engine.TagsChangedEvent) {
	if s.notifier == nil {
		return
	}
	snapshot, mapper, _ := d.Snapshot()
	if snapshot.Version != event.Version {
		return
	}
	rng, err := spanToRange(mapper, event.Span)
	if err != nil {
		s.logger.With("uri", d.uri, "error", err).Error("invalid tags changed span")
		return
	}
	if err := s.notifier.Notify(context.Background(), TagsChangedMethod, &TagsChangedParams{
		URI:     d.uri,
		Version: event.Version,
		Range:   rng,
	}); err != nil {
		s.logger.With("uri", d.uri, "error", err).Warn("failed to send tags changed notification")
	}
}
