package lsp

import (
	"github.com/kralicky/robotsls/pkg/format"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/diff"
)

func (s *Server) formatDocument(uri protocol.DocumentURI) ([]protocol.TextEdit, error) {
	d, err := s.cache.Get(uri)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	formatted := format.Format(e.Tree(snapshot))
	edits := diff.Bytes(mapper.Content, formatted)
	if len(edits) == 0 {
		return []protocol.TextEdit{}, nil
	}
	return protocol.EditsFromDiffEdits(mapper, edits)
}
