package lsp

import (
	"fmt"
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

// completion offers directive names when the caret is on a blank line or
// within the name of a directive.
func (s *Server) completion(params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	d, err := s.cache.Get(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	offset, err := mapper.PositionOffset(params.Position)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jsonrpc2.ErrInvalidParams, err)
	}

	list := &protocol.CompletionList{Items: []protocol.CompletionItem{}}
	replace := syntax.NewSpan(offset, offset)
	prefix := ""
	withDelimiter := true
	if line := e.Tree(snapshot).LineAt(offset); line != nil {
		if line.Kind() == syntax.KindCommentLine || line.Name == nil {
			return list, nil
		}
		name := line.Name.Span
		if !line.Name.Missing && (offset < name.Start || offset > name.End) {
			return list, nil
		}
		if !line.Name.Missing {
			replace = name
			prefix = strings.ToLower(string(snapshot.Text[name.Start:offset]))
		}
		withDelimiter = line.Delimiter == nil || line.Delimiter.Missing
	}
	rng, err := spanToRange(mapper, replace)
	if err != nil {
		return nil, err
	}

	for i, info := range syntax.KnownDirectives() {
		if !strings.HasPrefix(strings.ToLower(info.Name), prefix) {
			continue
		}
		text := info.Name
		if withDelimiter {
			text += ": "
		}
		detail := "directive"
		if info.NonStandard {
			detail = "non-standard directive"
		}
		list.Items = append(list.Items, protocol.CompletionItem{
			Label:  info.Name,
			Kind:   protocol.PropertyCompletion,
			Detail: detail,
			Documentation: &protocol.Or_CompletionItem_documentation{
				Value: protocol.MarkupContent{
					Kind:  protocol.Markdown,
					Value: directiveMarkdown(info),
				},
			},
			SortText: fmt.Sprintf("%02d", i),
			TextEdit: &protocol.Or_CompletionItem_textEdit{
				Value: protocol.TextEdit{
					Range:   rng,
					NewText: text,
				},
			},
		})
	}
	return list, nil
}
