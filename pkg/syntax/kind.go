package syntax

import "fmt"

// Kind identifies the type of a syntax node. Kinds form a single-inheritance
// hierarchy rooted at KindNode; see Is.
type Kind uint8

const (
	KindNode Kind = iota
	KindDocument
	KindRecord
	KindLine
	KindCommentLine
	KindDirective
	KindUserAgent
	KindRule
	KindSitemap
	KindCrawlDelay
	KindExtension

	kindCount
)

var kindNames = [kindCount]string{
	KindNode:        "Node",
	KindDocument:    "Document",
	KindRecord:      "Record",
	KindLine:        "Line",
	KindCommentLine: "CommentLine",
	KindDirective:   "Directive",
	KindUserAgent:   "UserAgent",
	KindRule:        "Rule",
	KindSitemap:     "Sitemap",
	KindCrawlDelay:  "CrawlDelay",
	KindExtension:   "Extension",
}

// kindParents is the is-a table. KindNode is the only kind without a parent.
var kindParents = map[Kind]Kind{
	KindDocument:    KindNode,
	KindRecord:      KindNode,
	KindLine:        KindNode,
	KindCommentLine: KindLine,
	KindDirective:   KindLine,
	KindUserAgent:   KindDirective,
	KindRule:        KindDirective,
	KindSitemap:     KindDirective,
	KindCrawlDelay:  KindDirective,
	KindExtension:   KindDirective,
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Parent returns the kind k directly derives from. The second return value
// is false for KindNode.
func (k Kind) Parent() (Kind, bool) {
	p, ok := kindParents[k]
	return p, ok
}

// Is reports whether k is base or derives from it.
func (k Kind) Is(base Kind) bool {
	for {
		if k == base {
			return true
		}
		if k == KindNode {
			return false
		}
		parent, ok := kindParents[k]
		if !ok {
			panic(fmt.Sprintf("bug: kind %s is missing from the is-a table", k))
		}
		k = parent
	}
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := KindNode; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
