package syntax

// Snapshot is an immutable, versioned view of a document's text. Callers must
// not modify Text after constructing a snapshot.
type Snapshot struct {
	Version int32
	Text    []byte
}

// Tree is the result of parsing one snapshot.
type Tree struct {
	Root     *DocumentNode
	Snapshot Snapshot
}

// ParseFunc builds a tree from a snapshot. Implementations must be pure and
// deterministic.
type ParseFunc func(snapshot Snapshot) *Tree

// DescendantsAndSelf returns node followed by all of its descendants in
// depth-first pre-order.
func DescendantsAndSelf(node Node) []Node {
	var out []Node
	Walk(node, func(n Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Walk visits node and its descendants in depth-first pre-order. If fn
// returns false, the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}

// AllTokens returns every token in the subtree rooted at node, in textual
// order.
func AllTokens(node Node) []*Token {
	var out []*Token
	Walk(node, func(n Node) bool {
		out = append(out, n.Tokens()...)
		return true
	})
	return out
}

// LineAt returns the line containing offset, or ending exactly at it so that
// a caret at the end of a line still finds it. Blank lines are not part of
// any record, so nil is returned for them.
func (t *Tree) LineAt(offset int) *LineNode {
	for _, record := range t.Root.Records {
		span := record.Span()
		if offset < span.Start || offset > span.End {
			continue
		}
		for _, line := range record.Lines {
			if ls := line.Span(); offset >= ls.Start && offset <= ls.End {
				return line
			}
		}
	}
	return nil
}
