package lsp_test

import (
	"context"
	"testing"

	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const featureDoc = "User-agent: a\nUser-agent: b\nDisallow: /x\n\n# only a comment\n\nSitemap: https://example.com/sitemap.xml\nSitemap: /relative.xml\nfoo: bar\n"

func position(line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: textDocument(),
		Position:     protocol.Position{Line: line, Character: char},
	}
}

func TestHover(t *testing.T) {
	server, _ := newServer(t)
	open(t, server, featureDoc)
	ctx := context.Background()

	hover, err := server.Hover(ctx, &protocol.HoverParams{TextDocumentPositionParams: position(2, 3)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Equal(t, rng(2, 0, 2, 8), hover.Range)
	assert.Equal(t, protocol.Markdown, hover.Contents.Kind)
	assert.Contains(t, hover.Contents.Value, "**Disallow**")
	assert.NotContains(t, hover.Contents.Value, "RFC 9309")

	// at the end of the name
	hover, err = server.Hover(ctx, &protocol.HoverParams{TextDocumentPositionParams: position(0, 10)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "**User-agent**")

	for _, pos := range []protocol.TextDocumentPositionParams{
		position(2, 11), // value
		position(3, 0),  // blank line
		position(4, 3),  // comment
		position(8, 1),  // unknown directive
	} {
		hover, err := server.Hover(ctx, &protocol.HoverParams{TextDocumentPositionParams: pos})
		require.NoError(t, err)
		assert.Nil(t, hover, "%v", pos.Position)
	}
}

func TestDocumentSymbols(t *testing.T) {
	server, _ := newServer(t)
	open(t, server, featureDoc)

	result, err := server.DocumentSymbol(context.Background(), &protocol.DocumentSymbolParams{TextDocument: textDocument()})
	require.NoError(t, err)
	require.Len(t, result, 2)
	symbols := make([]protocol.DocumentSymbol, len(result))
	for i, v := range result {
		sym, ok := v.(protocol.DocumentSymbol)
		require.True(t, ok, "unexpected symbol type %T", v)
		symbols[i] = sym
	}

	assert.Equal(t, "a, b", symbols[0].Name)
	assert.Equal(t, protocol.Namespace, symbols[0].Kind)
	assert.Equal(t, rng(0, 0, 2, 12), symbols[0].Range)
	assert.Equal(t, rng(0, 0, 0, 10), symbols[0].SelectionRange)
	require.Len(t, symbols[0].Children, 3)
	assert.Equal(t, "Disallow", symbols[0].Children[2].Name)
	assert.Equal(t, "/x", symbols[0].Children[2].Detail)
	assert.Equal(t, rng(2, 0, 2, 12), symbols[0].Children[2].Range)

	// a record without user agents is named after its first directive
	assert.Equal(t, "Sitemap", symbols[1].Name)
	require.Len(t, symbols[1].Children, 3)
	assert.Equal(t, "foo", symbols[1].Children[2].Name)
}

func TestDocumentLinks(t *testing.T) {
	server, _ := newServer(t)
	open(t, server, featureDoc)

	links, err := server.DocumentLink(context.Background(), &protocol.DocumentLinkParams{TextDocument: textDocument()})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, rng(6, 9, 6, 40), links[0].Range)
	require.NotNil(t, links[0].Target)
	assert.Equal(t, "https://example.com/sitemap.xml", *links[0].Target)
}

func TestCompletion(t *testing.T) {
	server, _ := newServer(t)
	open(t, server, "User-agent: a\nDis\n\nAllow: /\n# comment\n")
	ctx := context.Background()

	complete := func(line, char uint32) []protocol.CompletionItem {
		t.Helper()
		list, err := server.Completion(ctx, &protocol.CompletionParams{TextDocumentPositionParams: position(line, char)})
		require.NoError(t, err)
		return list.Items
	}

	// partial name without a delimiter
	items := complete(1, 3)
	require.Len(t, items, 1)
	assert.Equal(t, "Disallow", items[0].Label)
	require.NotNil(t, items[0].TextEdit)
	assert.Equal(t, protocol.TextEdit{Range: rng(1, 0, 1, 3), NewText: "Disallow: "}, items[0].TextEdit.Value)

	// blank line offers every directive
	items = complete(2, 0)
	require.Len(t, items, 10)
	assert.Equal(t, "Allow", items[0].Label)
	assert.Equal(t, "directive", items[0].Detail)
	assert.Equal(t, "non-standard directive", items[9].Detail)
	require.NotNil(t, items[0].TextEdit)
	assert.Equal(t, protocol.TextEdit{Range: rng(2, 0, 2, 0), NewText: "Allow: "}, items[0].TextEdit.Value)

	// a name that already has a delimiter is only renamed
	items = complete(3, 1)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].TextEdit)
	assert.Equal(t, protocol.TextEdit{Range: rng(3, 0, 3, 5), NewText: "Allow"}, items[0].TextEdit.Value)

	assert.Empty(t, complete(3, 7))
	assert.Empty(t, complete(4, 3))
}
