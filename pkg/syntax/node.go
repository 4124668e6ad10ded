package syntax

import "strings"

// Node is implemented by every element of a syntax tree. Nodes are immutable
// once the parser returns them.
type Node interface {
	Kind() Kind
	Span() Span
	// Children returns the direct child nodes in textual order.
	Children() []Node
	// Tokens returns the tokens owned directly by this node (not by its
	// children) in textual order.
	Tokens() []*Token
}

// DocumentNode is the root of every tree.
type DocumentNode struct {
	// Leading holds tokens that precede all records and belong to no line,
	// such as a byte order mark.
	Leading []*Token
	Records []*RecordNode
	span    Span
}

func (n *DocumentNode) Kind() Kind       { return KindDocument }
func (n *DocumentNode) Span() Span       { return n.span }
func (n *DocumentNode) Tokens() []*Token { return n.Leading }

func (n *DocumentNode) Children() []Node {
	children := make([]Node, len(n.Records))
	for i, r := range n.Records {
		children[i] = r
	}
	return children
}

// RecordNode is a group of consecutive non-blank lines. Records are the unit
// of change-impact granularity.
type RecordNode struct {
	// NameToken is the name of the first directive line of the record. For a
	// record made only of comments it is a missing token at the record start.
	NameToken *Token
	Lines     []*LineNode
	span      Span
}

func (n *RecordNode) Kind() Kind       { return KindRecord }
func (n *RecordNode) Span() Span       { return n.span }
func (n *RecordNode) Tokens() []*Token { return nil }

func (n *RecordNode) Children() []Node {
	children := make([]Node, len(n.Lines))
	for i, l := range n.Lines {
		children[i] = l
	}
	return children
}

// Name returns the record name, or "" if the record has no directive lines.
func (n *RecordNode) Name() string {
	if n.NameToken == nil || n.NameToken.Missing {
		return ""
	}
	return n.NameToken.Value
}

// Directives returns the lines of the record that are not comment-only.
func (n *RecordNode) Directives() []*LineNode {
	var out []*LineNode
	for _, l := range n.Lines {
		if l.kind != KindCommentLine {
			out = append(out, l)
		}
	}
	return out
}

// LineNode is a single physical line. Its span excludes the line terminator.
type LineNode struct {
	Name      *Token
	Delimiter *Token
	// Value is nil when the delimiter is present but nothing follows it.
	Value   *Token
	Comment *Token
	kind    Kind
	span    Span
}

func (n *LineNode) Kind() Kind       { return n.kind }
func (n *LineNode) Span() Span       { return n.span }
func (n *LineNode) Children() []Node { return nil }

func (n *LineNode) Tokens() []*Token {
	tokens := make([]*Token, 0, 4)
	for _, t := range [...]*Token{n.Name, n.Delimiter, n.Value, n.Comment} {
		if t != nil {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ValueText returns the value of the line, or "" if it has none.
func (n *LineNode) ValueText() string {
	if n.Value == nil || n.Value.Missing {
		return ""
	}
	return n.Value.Value
}

// DirectiveName returns the lowercased directive name of the line.
func (n *LineNode) DirectiveName() string {
	if n.Name == nil {
		return ""
	}
	return strings.ToLower(n.Name.Value)
}

var (
	_ Node = (*DocumentNode)(nil)
	_ Node = (*RecordNode)(nil)
	_ Node = (*LineNode)(nil)
)
