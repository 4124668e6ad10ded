package lsp

import (
	"errors"
	"fmt"

	"github.com/kralicky/robotsls/pkg/impact"
	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/diff"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
)

// ChangedText applies content change events, in order, to the text held by
// mapper. It returns the new text along with the changes in the form
// expected by the change impact analysis.
//
// A single ranged change is reported exactly. Anything else (multiple
// changes, or a full content replacement) is collapsed to the region between
// the common prefix and suffix of the old and new text.
func ChangedText(mapper *protocol.Mapper, changes []protocol.TextDocumentContentChangeEvent) ([]byte, []impact.Change, error) {
	if len(changes) == 0 {
		return nil, nil, fmt.Errorf("%w: no content changes provided", jsonrpc2.ErrInternal)
	}

	text := mapper.Content
	var exact *impact.Change
	for _, change := range changes {
		// A full content change may arrive even though incremental changes
		// were requested.
		if change.Range == nil {
			text = []byte(change.Text)
			continue
		}
		m := mapper
		if len(changes) > 1 {
			m = protocol.NewMapper(mapper.URI, text)
		}
		span, err := rangeToSpan(m, *change.Range)
		if err != nil {
			if !errors.Is(err, jsonrpc2.ErrInvalidParams) {
				err = fmt.Errorf("%w: %w", jsonrpc2.ErrInvalidParams, err)
			}
			return nil, nil, err
		}
		start, end := span.Start, span.End
		updated, err := diff.ApplyBytes(text, []diff.Edit{{Start: start, End: end, New: change.Text}})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", jsonrpc2.ErrInternal, err)
		}
		text = updated
		if len(changes) == 1 {
			exact = &impact.Change{
				Old: syntax.NewSpan(start, end),
				New: syntax.NewSpan(start, start+len(change.Text)),
			}
		}
	}
	if exact != nil {
		return text, []impact.Change{*exact}, nil
	}
	return text, []impact.Change{textChange(mapper.Content, text)}, nil
}

// textChange describes the replacement that turns before into after, trimmed
// to exclude their common prefix and suffix.
func textChange(before, after []byte) impact.Change {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}
	return impact.Change{
		Old: syntax.NewSpan(prefix, len(before)-suffix),
		New: syntax.NewSpan(prefix, len(after)-suffix),
	}
}
