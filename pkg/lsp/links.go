package lsp

import (
	"net/url"

	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/tools-lite/gopls/pkg/protocol"
)

// documentLinks links the value of every Sitemap line that holds an absolute
// http(s) URL.
func (s *Server) documentLinks(uri protocol.DocumentURI) ([]protocol.DocumentLink, error) {
	d, err := s.cache.Get(uri)
	if err != nil {
		return nil, err
	}
	snapshot, mapper, e := d.Snapshot()
	links := []protocol.DocumentLink{}
	for _, record := range e.Tree(snapshot).Root.Records {
		for _, line := range record.Lines {
			if line.Kind() != syntax.KindSitemap || line.ValueText() == "" {
				continue
			}
			target := line.ValueText()
			if u, err := url.Parse(target); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				continue
			}
			rng, err := spanToRange(mapper, line.Value.Span)
			if err != nil {
				return nil, err
			}
			links = append(links, protocol.DocumentLink{
				Range:  rng,
				Target: &target,
			})
		}
	}
	return links, nil
}
