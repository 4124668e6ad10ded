// Package references finds records sharing a name with the record under the
// caret.
package references

import (
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
)

// HighlightsAt returns the name token spans of every record whose name
// matches, ignoring case, the name of the record whose name token contains
// caret. The result is ordered by position and includes the record under the
// caret. It is empty if the caret is not on a record name.
//
// The whole document is scanned on every call.
func HighlightsAt(tree *syntax.Tree, caret int) []syntax.Span {
	target := RecordAt(tree, caret)
	if target == nil {
		return nil
	}
	name := target.Name()
	var spans []syntax.Span
	for _, record := range tree.Root.Records {
		if record.Name() == "" {
			continue
		}
		if strings.EqualFold(record.Name(), name) {
			spans = append(spans, record.NameToken.Span)
		}
	}
	return spans
}

// RecordAt returns the record whose name token contains offset, or nil.
func RecordAt(tree *syntax.Tree, offset int) *syntax.RecordNode {
	for _, record := range tree.Root.Records {
		if record.Name() != "" && record.NameToken.Span.Contains(offset) {
			return record
		}
	}
	return nil
}
