// Package classify maps the tokens of a syntax tree to display categories
// used for syntax highlighting.
package classify

import "github.com/kralicky/robotsls/pkg/syntax"

type Category uint8

const (
	Comment Category = iota
	Delimiter
	PropertyName
	PropertyValue
)

func (c Category) String() string {
	switch c {
	case Comment:
		return "Comment"
	case Delimiter:
		return "Delimiter"
	case PropertyName:
		return "PropertyName"
	case PropertyValue:
		return "PropertyValue"
	}
	return "Unknown"
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Comment, Delimiter, PropertyName, PropertyValue}
}

type Classification struct {
	Span     syntax.Span
	Category Category
}

// CategoryOf returns the category for a token kind. Tokens of kind Other
// have no category.
func CategoryOf(kind syntax.TokenKind) (Category, bool) {
	switch kind {
	case syntax.TokenComment:
		return Comment, true
	case syntax.TokenDelimiter:
		return Delimiter, true
	case syntax.TokenName:
		return PropertyName, true
	case syntax.TokenValue:
		return PropertyValue, true
	}
	return 0, false
}

// Classify returns a classification for every non-missing token of the tree
// that intersects rng, ordered by start offset.
func Classify(tree *syntax.Tree, rng syntax.Span) []Classification {
	var out []Classification
	for _, token := range syntax.AllTokens(tree.Root) {
		if token.Missing || !token.Span.IntersectsWith(rng) {
			continue
		}
		category, ok := CategoryOf(token.Kind)
		if !ok {
			continue
		}
		out = append(out, Classification{
			Span:     token.Span,
			Category: category,
		})
	}
	return out
}
