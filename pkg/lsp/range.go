package lsp

import (
	"fmt"

	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

func spanToRange(m *protocol.Mapper, span syntax.Span) (protocol.Range, error) {
	return m.OffsetRange(span.Start, span.End)
}

func rangeToSpan(m *protocol.Mapper, rng protocol.Range) (syntax.Span, error) {
	start, end, err := m.RangeOffsets(rng)
	if err != nil {
		return syntax.Span{}, err
	}
	if end < start {
		return syntax.Span{}, fmt.Errorf("%w: range end %v precedes start %v", jsonrpc2.ErrInvalidParams, rng.End, rng.Start)
	}
	return syntax.NewSpan(start, end), nil
}

func fullSpan(m *protocol.Mapper) syntax.Span {
	return syntax.NewSpan(0, len(m.Content))
}
