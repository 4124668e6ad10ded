package diagnostics

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
)

// Builtin returns the default set of analyzers, in the order they should be
// registered.
func Builtin() []Analyzer {
	return []Analyzer{
		MissingTokenAnalyzer,
		UnknownDirectiveAnalyzer,
		EmptyUserAgentAnalyzer,
		RulePathAnalyzer,
		SitemapURLAnalyzer,
		CrawlDelayAnalyzer,
		RecordStartAnalyzer,
		DuplicateUserAgentAnalyzer,
	}
}

var MissingTokenAnalyzer = NewAnalyzer("missing-token", []syntax.Kind{syntax.KindLine}, func(node syntax.Node) ([]Diagnostic, error) {
	var out []Diagnostic
	for _, tok := range node.Tokens() {
		if !tok.Missing {
			continue
		}
		var msg string
		switch tok.Kind {
		case syntax.TokenName:
			msg = "expected a directive name"
		case syntax.TokenDelimiter:
			msg = "expected ':' after directive name"
		case syntax.TokenValue:
			msg = "expected a directive value"
		default:
			msg = fmt.Sprintf("missing %s", strings.ToLower(tok.Kind.String()))
		}
		out = append(out, Diagnostic{
			Span:     tok.Span,
			Severity: SeverityError,
			Message:  msg,
		})
	}
	return out, nil
})

var UnknownDirectiveAnalyzer = NewAnalyzer("unknown-directive", []syntax.Kind{syntax.KindExtension}, func(node syntax.Node) ([]Diagnostic, error) {
	line := node.(*syntax.LineNode)
	// without a delimiter the whole line reads as a name
	if line.Name.Missing || line.Delimiter.Missing {
		return nil, nil
	}
	if _, ok := syntax.LookupDirective(line.Name.Value); ok {
		return nil, nil
	}
	return []Diagnostic{{
		Span:     line.Name.Span,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("unknown directive %q", line.Name.Value),
	}}, nil
})

var EmptyUserAgentAnalyzer = NewAnalyzer("empty-user-agent", []syntax.Kind{syntax.KindUserAgent}, func(node syntax.Node) ([]Diagnostic, error) {
	line := node.(*syntax.LineNode)
	if line.ValueText() != "" || line.Delimiter.Missing {
		return nil, nil
	}
	return []Diagnostic{{
		Span:     line.Span(),
		Severity: SeverityError,
		Message:  "User-agent requires a product token or '*'",
	}}, nil
})

var RulePathAnalyzer = NewAnalyzer("rule-path", []syntax.Kind{syntax.KindRule}, func(node syntax.Node) ([]Diagnostic, error) {
	line := node.(*syntax.LineNode)
	value := line.ValueText()
	// an empty rule matches nothing, which is how "allow everything" is spelled
	if value == "" || strings.HasPrefix(value, "/") || strings.HasPrefix(value, "*") {
		return nil, nil
	}
	return []Diagnostic{{
		Span:     line.Value.Span,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("path %q should start with '/' or '*'", value),
	}}, nil
})

var SitemapURLAnalyzer = NewAnalyzer("sitemap-url", []syntax.Kind{syntax.KindSitemap}, func(node syntax.Node) ([]Diagnostic, error) {
	line := node.(*syntax.LineNode)
	if line.Delimiter.Missing {
		return nil, nil
	}
	value := line.ValueText()
	span := line.Span()
	if line.Value != nil {
		span = line.Value.Span
	}
	u, err := url.Parse(value)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return nil, nil
	}
	return []Diagnostic{{
		Span:     span,
		Severity: SeverityError,
		Message:  fmt.Sprintf("sitemap %q is not an absolute http(s) URL", value),
	}}, nil
})

var CrawlDelayAnalyzer = NewAnalyzer("crawl-delay", []syntax.Kind{syntax.KindCrawlDelay}, func(node syntax.Node) ([]Diagnostic, error) {
	line := node.(*syntax.LineNode)
	if line.Delimiter.Missing {
		return nil, nil
	}
	value := line.ValueText()
	span := line.Span()
	if line.Value != nil {
		span = line.Value.Span
	}
	if d, err := strconv.ParseFloat(value, 64); err == nil && d >= 0 {
		return nil, nil
	}
	return []Diagnostic{{
		Span:     span,
		Severity: SeverityError,
		Message:  fmt.Sprintf("crawl delay %q must be a non-negative number of seconds", value),
	}}, nil
})

// RecordStartAnalyzer reports rules that appear before any User-agent line.
// Blank lines split records but do not end a group, so a record that starts
// with a rule after an earlier group belongs to that group.
var RecordStartAnalyzer = NewAnalyzer("record-start", []syntax.Kind{syntax.KindDocument}, func(node syntax.Node) ([]Diagnostic, error) {
	var out []Diagnostic
	grouped := false
	for _, record := range node.(*syntax.DocumentNode).Records {
		directives := record.Directives()
		if len(directives) == 0 {
			continue
		}
		first := directives[0]
		switch first.Kind() {
		case syntax.KindRule, syntax.KindCrawlDelay:
			if !grouped {
				out = append(out, Diagnostic{
					Span:     first.Span(),
					Severity: SeverityError,
					Message:  fmt.Sprintf("%s must follow a User-agent line", first.Name.Value),
				})
			}
		}
		if !grouped {
			grouped = slices.ContainsFunc(directives, func(line *syntax.LineNode) bool {
				return line.Kind() == syntax.KindUserAgent
			})
		}
	}
	return out, nil
})

var DuplicateUserAgentAnalyzer = NewAnalyzer("duplicate-user-agent", []syntax.Kind{syntax.KindDocument}, func(node syntax.Node) ([]Diagnostic, error) {
	seen := map[string]struct{}{}
	var out []Diagnostic
	for _, record := range node.(*syntax.DocumentNode).Records {
		for _, line := range record.Lines {
			if line.Kind() != syntax.KindUserAgent || line.ValueText() == "" {
				continue
			}
			agent := strings.ToLower(line.ValueText())
			if _, ok := seen[agent]; !ok {
				seen[agent] = struct{}{}
				continue
			}
			out = append(out, Diagnostic{
				Span:     line.Value.Span,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("user agent %q is already matched by an earlier group", line.ValueText()),
			})
		}
	}
	return out, nil
})
