package lsp

import (
	"fmt"
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

func (s *Server) hover(params *protocol.HoverParams) (*protocol.Hover, error) {
	d, err := s.cache.Get(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	offset, err := mapper.PositionOffset(params.Position)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jsonrpc2.ErrInvalidParams, err)
	}
	line := e.Tree(snapshot).LineAt(offset)
	if line == nil || line.Name == nil || line.Name.Missing {
		return nil, nil
	}
	if offset < line.Name.Span.Start || offset > line.Name.Span.End {
		return nil, nil
	}
	info, ok := syntax.LookupDirective(line.Name.Value)
	if !ok {
		return nil, nil
	}
	rng, err := spanToRange(mapper, line.Name.Span)
	if err != nil {
		return nil, err
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: directiveMarkdown(info),
		},
		Range: rng,
	}, nil
}

func directiveMarkdown(info syntax.DirectiveInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n%s", info.Name, info.Doc)
	if info.NonStandard {
		b.WriteString("\n\n_Not part of RFC 9309; only some crawlers honor it._")
	}
	return b.String()
}
