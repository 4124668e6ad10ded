package lsp

import (
	"fmt"

	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

func (s *Server) documentHighlight(params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	d, err := s.cache.Get(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	offset, err := mapper.PositionOffset(params.Position)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jsonrpc2.ErrInvalidParams, err)
	}
	spans := e.HighlightsAt(snapshot, offset)
	highlights := make([]protocol.DocumentHighlight, 0, len(spans))
	for _, span := range spans {
		rng, err := spanToRange(mapper, span)
		if err != nil {
			return nil, err
		}
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: rng,
			Kind:  protocol.Text,
		})
	}
	return highlights, nil
}
