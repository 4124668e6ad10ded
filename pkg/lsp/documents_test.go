package lsp

import (
	"testing"

	"github.com/kralicky/robotsls/pkg/impact"
	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/kralicky/tools-lite/pkg/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURI = protocol.DocumentURI("file:///workspace/robots.txt")

func rangeOf(startLine, startChar, endLine, endChar uint32) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

func TestChangedText(t *testing.T) {
	const before = "User-agent: a\nDisallow: /x\n"
	cases := []struct {
		name    string
		changes []protocol.TextDocumentContentChangeEvent
		want    string
		changed []impact.Change
	}{
		{
			name:    "single insertion",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rangeOf(1, 11, 1, 11), Text: "y"}},
			want:    "User-agent: a\nDisallow: /yx\n",
			changed: []impact.Change{{Old: syntax.Span{Start: 25, End: 25}, New: syntax.Span{Start: 25, End: 26}}},
		},
		{
			name:    "single replacement",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rangeOf(0, 12, 1, 0), Text: "bot\n"}},
			want:    "User-agent: bot\nDisallow: /x\n",
			changed: []impact.Change{{Old: syntax.Span{Start: 12, End: 14}, New: syntax.Span{Start: 12, End: 16}}},
		},
		{
			name: "sequential changes",
			changes: []protocol.TextDocumentContentChangeEvent{
				{Range: rangeOf(0, 12, 0, 13), Text: "bb"},
				// relative to the text after the first change
				{Range: rangeOf(1, 10, 1, 12), Text: "/"},
			},
			want:    "User-agent: bb\nDisallow: /\n",
			changed: []impact.Change{{Old: syntax.Span{Start: 12, End: 26}, New: syntax.Span{Start: 12, End: 26}}},
		},
		{
			name:    "full replacement",
			changes: []protocol.TextDocumentContentChangeEvent{{Text: "User-agent: a\nAllow: /x\n"}},
			want:    "User-agent: a\nAllow: /x\n",
			changed: []impact.Change{{Old: syntax.Span{Start: 14, End: 18}, New: syntax.Span{Start: 14, End: 15}}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			text, changes, err := ChangedText(protocol.NewMapper(testURI, []byte(before)), c.changes)
			require.NoError(t, err)
			assert.Equal(t, c.want, string(text))
			assert.Equal(t, c.changed, changes)
		})
	}
}

func TestChangedTextErrors(t *testing.T) {
	m := protocol.NewMapper(testURI, []byte("a\n"))
	_, _, err := ChangedText(m, nil)
	assert.Error(t, err)

	_, _, err = ChangedText(m, []protocol.TextDocumentContentChangeEvent{{Range: rangeOf(5, 0, 5, 1), Text: "x"}})
	assert.ErrorIs(t, err, jsonrpc2.ErrInvalidParams)

	_, _, err = ChangedText(m, []protocol.TextDocumentContentChangeEvent{{Range: rangeOf(0, 1, 0, 0), Text: "x"}})
	assert.ErrorIs(t, err, jsonrpc2.ErrInvalidParams)
}

func TestTextChange(t *testing.T) {
	cases := []struct {
		before, after string
		want          impact.Change
	}{
		{"abc", "abc", impact.Change{Old: syntax.Span{Start: 3, End: 3}, New: syntax.Span{Start: 3, End: 3}}},
		{"abc", "abXc", impact.Change{Old: syntax.Span{Start: 2, End: 2}, New: syntax.Span{Start: 2, End: 3}}},
		{"aaa", "aaaa", impact.Change{Old: syntax.Span{Start: 3, End: 3}, New: syntax.Span{Start: 3, End: 4}}},
		{"abcd", "ad", impact.Change{Old: syntax.Span{Start: 1, End: 3}, New: syntax.Span{Start: 1, End: 1}}},
		{"", "xyz", impact.Change{Old: syntax.Span{Start: 0, End: 0}, New: syntax.Span{Start: 0, End: 3}}},
		{"xyz", "", impact.Change{Old: syntax.Span{Start: 0, End: 3}, New: syntax.Span{Start: 0, End: 0}}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, textChange([]byte(c.before), []byte(c.after)), "%q -> %q", c.before, c.after)
	}
}
