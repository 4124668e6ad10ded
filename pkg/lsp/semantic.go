package lsp

import (
	"fmt"

	"github.com/kralicky/robotsls/pkg/classify"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
)

// semanticTokenTypes is the token legend. Indexes match classify.Category.
var semanticTokenTypes = []string{
	classify.Comment:       string(protocol.CommentType),
	classify.Delimiter:     string(protocol.OperatorType),
	classify.PropertyName:  string(protocol.PropertyType),
	classify.PropertyValue: string(protocol.StringType),
}

var semanticTokenModifiers = []string{}

// encodeSemanticTokens converts classifications to the relative encoding
// used by textDocument/semanticTokens. Positions and lengths are expressed in
// the mapper's column units.
func encodeSemanticTokens(m *protocol.Mapper, classifications []classify.Classification) ([]uint32, error) {
	data := make([]uint32, 0, 5*len(classifications))
	var prevLine, prevChar uint32
	for _, c := range classifications {
		if c.Span.IsEmpty() {
			continue
		}
		rng, err := spanToRange(m, c.Span)
		if err != nil {
			return nil, err
		}
		if rng.Start.Line != rng.End.Line {
			return nil, fmt.Errorf("bug: token %s spans multiple lines", c.Span)
		}
		deltaLine := rng.Start.Line - prevLine
		deltaChar := rng.Start.Character
		if deltaLine == 0 {
			deltaChar -= prevChar
		}
		data = append(data,
			deltaLine,
			deltaChar,
			rng.End.Character-rng.Start.Character,
			uint32(c.Category),
			0,
		)
		prevLine, prevChar = rng.Start.Line, rng.Start.Character
	}
	return data, nil
}

func (s *Server) semanticTokens(uri protocol.DocumentURI, rng *protocol.Range) (*protocol.SemanticTokens, error) {
	d, err := s.cache.Get(uri)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	span := fullSpan(mapper)
	if rng != nil {
		if span, err = rangeToSpan(mapper, *rng); err != nil {
			return nil, err
		}
	}
	data, err := encodeSemanticTokens(mapper, e.Classify(snapshot, span))
	if err != nil {
		return nil, err
	}
	return &protocol.SemanticTokens{
		ResultID: s.cache.ResultID(snapshot.Version),
		Data:     data,
	}, nil
}
