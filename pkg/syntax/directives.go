package syntax

import (
	"slices"
	"strings"
)

type DirectiveInfo struct {
	// Canonical spelling of the directive name.
	Name string
	Kind Kind
	// Short markdown description shown by editors.
	Doc string
	// Set for directives outside RFC 9309 that only some crawlers honor.
	NonStandard bool
}

var directives = map[string]DirectiveInfo{
	"user-agent": {
		Name: "User-agent", Kind: KindUserAgent,
		Doc: "Starts a group of rules for the named crawler. The product token is matched case-insensitively; `*` matches any crawler without a more specific group.",
	},
	"allow": {
		Name: "Allow", Kind: KindRule,
		Doc: "Allows crawling of paths starting with the given prefix. `*` matches any sequence of characters and `$` anchors the end of the path.",
	},
	"disallow": {
		Name: "Disallow", Kind: KindRule,
		Doc: "Disallows crawling of paths starting with the given prefix. An empty value disallows nothing.",
	},
	"sitemap": {
		Name: "Sitemap", Kind: KindSitemap,
		Doc: "Absolute URL of a sitemap. Sitemap lines apply to the whole file, not to a group.",
	},
	"crawl-delay": {
		Name: "Crawl-delay", Kind: KindCrawlDelay, NonStandard: true,
		Doc: "Minimum number of seconds a crawler should wait between requests.",
	},

	"host": {
		Name: "Host", Kind: KindExtension, NonStandard: true,
		Doc: "Preferred host name of the site.",
	},
	"clean-param": {
		Name: "Clean-param", Kind: KindExtension, NonStandard: true,
		Doc: "Query parameters that do not change page content, optionally followed by a path prefix.",
	},
	"request-rate": {
		Name: "Request-rate", Kind: KindExtension, NonStandard: true,
		Doc: "Maximum rate of requests, written as `pages/seconds`.",
	},
	"visit-time": {
		Name: "Visit-time", Kind: KindExtension, NonStandard: true,
		Doc: "UTC time window during which crawling is preferred, written as `HHMM-HHMM`.",
	},
	"noindex": {
		Name: "Noindex", Kind: KindExtension, NonStandard: true,
		Doc: "Paths that should not be indexed.",
	},
}

// LookupDirective finds a known directive by name, ignoring case.
func LookupDirective(name string) (DirectiveInfo, bool) {
	info, ok := directives[strings.ToLower(name)]
	return info, ok
}

// KnownDirectives returns all known directives, standard ones first, each
// group sorted by name.
func KnownDirectives() []DirectiveInfo {
	out := make([]DirectiveInfo, 0, len(directives))
	for _, info := range directives {
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b DirectiveInfo) int {
		if a.NonStandard != b.NonStandard {
			if a.NonStandard {
				return 1
			}
			return -1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func directiveKind(name string) Kind {
	if info, ok := LookupDirective(name); ok {
		return info.Kind
	}
	return KindExtension
}
