package lsp

import (
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
)

// documentSymbols returns one symbol per record, named after the user agents
// it applies to, with its directives as children. Records made only of
// comments are skipped.
func (s *Server) documentSymbols(uri protocol.DocumentURI) ([]protocol.DocumentSymbol, error) {
	d, err := s.cache.Get(uri)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	symbols := []protocol.DocumentSymbol{}
	for _, record := range e.Tree(snapshot).Root.Records {
		if record.Name() == "" {
			continue
		}
		symbol, err := recordSymbol(mapper, record)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

func recordSymbol(mapper *protocol.Mapper, record *syntax.RecordNode) (protocol.DocumentSymbol, error) {
	rng, err := spanToRange(mapper, record.Span())
	if err != nil {
		return protocol.DocumentSymbol{}, err
	}
	selection, err := spanToRange(mapper, record.NameToken.Span)
	if err != nil {
		return protocol.DocumentSymbol{}, err
	}
	var agents []string
	var children []protocol.DocumentSymbol
	for _, line := range record.Directives() {
		if line.Name.Missing {
			continue
		}
		if line.Kind() == syntax.KindUserAgent && line.ValueText() != "" {
			agents = append(agents, line.ValueText())
		}
		name := line.Name.Value
		if info, ok := syntax.LookupDirective(name); ok {
			name = info.Name
		}
		lineRange, err := spanToRange(mapper, line.Span())
		if err != nil {
			return protocol.DocumentSymbol{}, err
		}
		nameRange, err := spanToRange(mapper, line.Name.Span)
		if err != nil {
			return protocol.DocumentSymbol{}, err
		}
		children = append(children, protocol.DocumentSymbol{
			Name:           name,
			Detail:         line.ValueText(),
			Kind:           protocol.Property,
			Range:          lineRange,
			SelectionRange: nameRange,
		})
	}
	name := strings.Join(agents, ", ")
	if name == "" {
		name = record.Name()
	}
	return protocol.DocumentSymbol{
		Name:           name,
		Kind:           protocol.Namespace,
		Range:          rng,
		SelectionRange: selection,
		Children:       children,
	}, nil
}
