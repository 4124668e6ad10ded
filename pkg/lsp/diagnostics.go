package lsp

import (
	"context"

	"github.com/kralicky/robotsls/pkg/diagnostics"
	"github.com/kralicky/robotsls/pkg/engine"
	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/file"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
)

func toProtocolSeverity(s diagnostics.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diagnostics.SeverityError:
		return protocol.SeverityError
	case diagnostics.SeverityWarning:
		return protocol.SeverityWarning
	case diagnostics.SeverityInformation:
		return protocol.SeverityInformation
	default:
		return protocol.SeverityHint
	}
}

func toProtocolDiagnostics(m *protocol.Mapper, diags []diagnostics.Diagnostic) ([]protocol.Diagnostic, error) {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		rng, err := spanToRange(m, d.Span)
		if err != nil {
			return nil, err
		}
		out = append(out, protocol.Diagnostic{
			Range:    rng,
			Severity: toProtocolSeverity(d.Severity),
			Code:     d.Code,
			Source:   d.Source,
			Message:  d.Message,
		})
	}
	return out, nil
}

// computeDiagnostics analyzes the whole document.
func computeDiagnostics(snapshot syntax.Snapshot, mapper *protocol.Mapper, e *engine.Engine) ([]protocol.Diagnostic, error) {
	return toProtocolDiagnostics(mapper, e.Analyze(snapshot, fullSpan(mapper)))
}

// publishDiagnostics pushes diagnostics for the current version of d. Results
// computed for a version that has since been replaced are dropped.
func (s *Server) publishDiagnostics(ctx context.Context, d *document) {
	snapshot, mapper, e := d.Snapshot()
	defer s.cache.documentVersions.Update(file.Modification{
		URI:     d.uri,
		Action:  file.Change,
		Version: snapshot.Version,
	})

	items, err := computeDiagnostics(snapshot, mapper, e)
	if err != nil {
		s.logger.With(
			"uri", d.uri,
			"version", snapshot.Version,
			"error", err,
		).Error("failed to compute diagnostics")
		return
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if open, err := s.cache.Get(d.uri); err != nil || open != d {
		return
	}
	if current, _, _ := d.Snapshot(); current.Version != snapshot.Version {
		return
	}
	if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         d.uri,
		Version:     snapshot.Version,
		Diagnostics: items,
	}); err != nil {
		s.logger.With(
			"uri", d.uri,
			"error", err,
		).Warn("failed to publish diagnostics")
	}
}

func (s *Server) clearDiagnostics(ctx context.Context, uri protocol.DocumentURI) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	}); err != nil {
		s.logger.With(
			"uri", uri,
			"error", err,
		).Warn("failed to clear diagnostics")
	}
}

// documentDiagnostic answers a textDocument/diagnostic pull request. If the
// client already has the current result, an unchanged report is returned.
func (s *Server) documentDiagnostic(uri protocol.DocumentURI, previousResultID string) (*protocol.DocumentDiagnosticReport, error) {
	d, err := s.cache.Get(uri)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	resultID := s.cache.ResultID(snapshot.Version)
	if previousResultID != "" && previousResultID == resultID {
		return &protocol.DocumentDiagnosticReport{
			Value: protocol.RelatedUnchangedDocumentDiagnosticReport{
				UnchangedDocumentDiagnosticReport: protocol.UnchangedDocumentDiagnosticReport{
					Kind:     string(protocol.DiagnosticUnchanged),
					ResultID: resultID,
				},
			},
		}, nil
	}
	items, err := computeDiagnostics(snapshot, mapper, e)
	if err != nil {
		return nil, err
	}
	return &protocol.DocumentDiagnosticReport{
		Value: protocol.RelatedFullDocumentDiagnosticReport{
			FullDocumentDiagnosticReport: protocol.FullDocumentDiagnosticReport{
				Kind:     string(protocol.DiagnosticFull),
				ResultID: resultID,
				Items:    items,
			},
		},
	}, nil
}
